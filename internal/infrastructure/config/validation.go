package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterStructValidation(validateMetrics, MetricsConfig{})

	return &Validator{
		validate: v,
	}
}

// validateMetrics requires a port and an absolute path once metrics are served
func validateMetrics(sl validator.StructLevel) {
	m := sl.Current().Interface().(MetricsConfig)
	if !m.Enabled {
		return
	}
	if m.Port == 0 {
		sl.ReportError(m.Port, "Port", "port", "required_when_enabled", "")
	}
	if !strings.HasPrefix(m.Path, "/") {
		sl.ReportError(m.Path, "Path", "path", "absolute_path", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
