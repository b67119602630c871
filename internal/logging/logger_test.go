package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("nonsense"))
}

func TestCombinedWriter(t *testing.T) {
	var a, b bytes.Buffer
	cw := NewCombinedWriter(&a, failingWriter{}, &b)

	n, err := cw.Write([]byte("hello"))
	assert.Equal(t, 5, n)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())
}

func TestSetup_File(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	name := filepath.Join(t.TempDir(), "server")
	Setup(LoggerSetupParams{LogFileName: name, LogLevel: "warn", LogFormatJSON: true})

	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	logrus.WithField("user_id", "u1").Warn("stored")
	logrus.Info("dropped")

	data, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_id":"u1"`)
	assert.NotContains(t, string(data), "dropped")
}
