package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	server, err := cfg.GetServer()
	require.NoError(t, err)
	assert.True(t, server.Enabled)
	assert.Equal(t, "0.0.0.0:8000", server.ListenAddress)
	assert.Equal(t, 300*time.Second, server.WriteTimeout)
	assert.Equal(t, int64(10<<20), server.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, server.AllowedOrigins)

	smtpCfg, err := cfg.GetSMTP()
	require.NoError(t, err)
	assert.False(t, smtpCfg.Enabled)
	assert.Equal(t, "ensemble", smtpCfg.Model)
	assert.Equal(t, "X-Spam-Model", smtpCfg.ModelHeader)
	assert.Equal(t, 10026, smtpCfg.RelayPort)
	assert.Equal(t, time.Minute, smtpCfg.Timeout)

	remote, err := cfg.GetRemote()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, remote.Timeout)

	assert.Equal(t, 4, cfg.GetEvaluation().Concurrency)
	assert.Equal(t, 4096, cfg.GetText().MaxLength)
	assert.Equal(t, "gpt-4", cfg.GetOpenAI().ModelName)
	assert.Equal(t, "us-east-1", cfg.GetBedrock().Region)
	assert.InDelta(t, 0.1, cfg.GetGemini().Temperature, 1e-6)
}

func TestGetModel(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	bilstm, err := cfg.GetModel("bilstm")
	require.NoError(t, err)
	assert.Equal(t, "gradio", bilstm.Backend)
	assert.Equal(t, "https://aavv4-bilstmmodel.hf.space", bilstm.URL)
	assert.Equal(t, "/predict", bilstm.APIName)
	assert.Equal(t, []string{"spam_confidence", "confidence"}, bilstm.Fields)

	pu, err := cfg.GetModel("pu")
	require.NoError(t, err)
	assert.Equal(t, []string{"probability"}, pu.Fields)

	_, err = cfg.GetModel("svm")
	assert.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  listen_address: "127.0.0.1:9000"
models:
  gan:
    backend: openai
evaluation:
  concurrency: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	server, err := cfg.GetServer()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", server.ListenAddress)
	assert.Equal(t, 1, cfg.GetEvaluation().Concurrency)

	gan, err := cfg.GetModel("gan")
	require.NoError(t, err)
	assert.Equal(t, "openai", gan.Backend)
	assert.Equal(t, []string{"spam_probability"}, gan.Fields)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SPAM_ENSEMBLE_SMTP_MODEL", "gan")

	cfg, err := NewFromFile(writeEmptyConfig(t))
	require.NoError(t, err)

	smtpCfg, err := cfg.GetSMTP()
	require.NoError(t, err)
	assert.Equal(t, "gan", smtpCfg.Model)
}

func TestInvalidDuration(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())
	cfg.Set("remote.timeout", "soon")

	_, err := cfg.GetRemote()
	assert.Error(t, err)
}

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))
	return path
}
