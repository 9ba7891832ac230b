package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerBeforeInitDiscards(t *testing.T) {
	// must not panic with the no-op core
	l := NewLogger("early")
	l.Info("dropped")
	l.Errorw("dropped", "key", "value")

	assert.Same(t, l.logger(), l.logger())
}

func TestInitLoggerWritesToViewAndFile(t *testing.T) {
	var view bytes.Buffer
	dir := t.TempDir()

	early := NewLogger("views")
	early.Info("before init")
	before := early.logger()

	require.NoError(t, InitLogger(true, dir, &view))

	// loggers made before InitLogger pick up the new core
	early.Info("after init")
	assert.NotSame(t, before, early.logger())

	l := NewLogger("controller")
	l.Infow("reply rendered", "chars", 8)
	l.Error("request failed")
	l.Close()

	assert.Contains(t, view.String(), "controller")
	assert.Contains(t, view.String(), "reply rendered")
	assert.Contains(t, view.String(), "request failed")
	assert.Contains(t, view.String(), "after init")
	assert.NotContains(t, view.String(), "before init")

	matches, err := filepath.Glob(filepath.Join(dir, "chiarella_log_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logger":"controller"`)
	assert.Contains(t, string(data), `"chars":8`)

	// a second call is ignored
	require.NoError(t, InitLogger(false, "", nil))
}
