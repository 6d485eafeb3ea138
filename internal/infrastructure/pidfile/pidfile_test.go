package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "searoutes.pid")
	p := New(path)

	require.NoError(t, p.Acquire())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	require.NoError(t, p.Release())
	assert.NoFileExists(t, path)
	assert.NoError(t, p.Release(), "releasing twice is fine")
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searoutes.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	assert.NoError(t, New(path).Acquire())
}

func TestAcquire_RejectsLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searoutes.pid")
	// PID 1 always exists on unix
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", 1)), 0o644))

	err := New(path).Acquire()
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}
