package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "server.pid")
	p := New(path)

	// Act
	require.NoError(t, p.Acquire())
	pid, err := p.Read()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	require.NoError(t, p.Release())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAcquire_LiveOwner(t *testing.T) {
	// Arrange - the parent process is alive and is not us
	path := filepath.Join(t.TempDir(), "server.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())+"\n"), 0o644))

	// Act
	err := New(path).Acquire()

	// Assert
	var running *ErrAlreadyRunning
	require.True(t, errors.As(err, &running))
	assert.Equal(t, os.Getppid(), running.PID)
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	p := New(path)
	require.NoError(t, p.Acquire())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestRelease_LeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.pid")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))

	require.NoError(t, New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
