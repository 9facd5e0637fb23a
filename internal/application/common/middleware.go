package common

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware logs every request with its duration at debug level and
// failures at warn level
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		start := time.Now()
		response, err := next(ctx, request)

		fields := []zap.Field{
			zap.String("request", requestName(request)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Warn("request failed", append(fields, zap.Error(err))...)
			return nil, err
		}
		logger.Debug("request handled", fields...)
		return response, nil
	}
}

func requestName(request Request) string {
	t := reflect.TypeOf(request)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
