package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	dotEnv := "SGPA_SERVER_ADDR=:9000\nSGPA_EXTRACTOR_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(dotEnv), 0o600))

	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("ENV", "test")
	t.Setenv("SGPA_DEFAULTFROMEMAIL", "Marks Bot <bot@sgpa.test>")
	t.Cleanup(func() {
		_ = os.Unsetenv("SGPA_SERVER_ADDR")
		_ = os.Unsetenv("SGPA_EXTRACTOR_TIMEOUT")
	})

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, ":9000", conf.Server.Addr)
	assert.Equal(t, 5*time.Second, conf.Extractor.Timeout)
	assert.Equal(t, "bot@sgpa.test", conf.DefaultFromEmail.Address)
	assert.Equal(t, "Marks Bot", conf.DefaultFromEmail.Name)
	assert.Equal(t, "gemini-2.5-flash", conf.Extractor.Model)
	assert.Equal(t, int64(10<<20), conf.Extractor.MaxUploadSize)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
}
