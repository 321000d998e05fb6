package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MICROBLOG_SESSION_SECRET", "s3cret")
	t.Setenv("MICROBLOG_AUTH_IDENTITYKEY", "id-key")
	t.Setenv("MICROBLOG_LOG_LEVEL", "debug")
	t.Setenv("MICROBLOG_DATABASE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, "id-key", cfg.Auth.IdentityKey)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 9, cfg.Feed.PageSize)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
session:
  secret: from-file
  ttl: 2h
auth:
  identitykey: identity-from-file
feed:
  pagesize: 12
log:
  level: warn
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Session.Secret)
	assert.Equal(t, "identity-from-file", cfg.Auth.IdentityKey)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 12, cfg.Feed.PageSize)
	assert.Equal(t, zapcore.WarnLevel, cfg.Log.Level)
}

func TestLoadRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MICROBLOG_SESSION_SECRET", "")
	t.Setenv("MICROBLOG_AUTH_IDENTITYKEY", "id-key")
	_, err := Load()
	assert.ErrorContains(t, err, "session.secret")
}

// 会话密钥轮换不能影响身份哈希，所以身份密钥必须单独配置
func TestLoadRequiresIdentityKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MICROBLOG_SESSION_SECRET", "s3cret")
	t.Setenv("MICROBLOG_AUTH_IDENTITYKEY", "")
	_, err := Load()
	assert.ErrorContains(t, err, "auth.identitykey")
}
