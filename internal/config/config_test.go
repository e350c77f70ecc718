package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("jwt_secret: s3cret\n"), "test.yml")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "msga", cfg.Database.Name)
	assert.False(t, cfg.Backup.Enabled())
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("prot: 9000\n"), "test.yml")
	assert.Error(t, err)
}

func TestParseValidation(t *testing.T) {
	_, err := Parse([]byte("port: 0\n"), "test.yml")
	assert.ErrorContains(t, err, "invalid port")

	_, err = Parse([]byte("token_ttl_hours: 0\n"), "test.yml")
	assert.ErrorContains(t, err, "token_ttl_hours")

	_, err = Parse([]byte("database:\n  port: 99999\n"), "test.yml")
	assert.ErrorContains(t, err, "database.port")
}

func TestDSNValue(t *testing.T) {
	db := DatabaseConfig{Host: "db.local", Port: 3307, User: "msga", Password: "pw", Name: "msga"}
	dsn := db.DSNValue()
	assert.Contains(t, dsn, "msga:pw@tcp(db.local:3307)/msga?")
	assert.Contains(t, dsn, "parseTime=true")

	db.DSN = "explicit-dsn"
	assert.Equal(t, "explicit-dsn", db.DSNValue())
}

func TestNormalizeRedisURL(t *testing.T) {
	cfg, err := Parse([]byte("redis_url: localhost:6380\n"), "test.yml")
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6380", cfg.RedisURL)

	cfg, err = Parse([]byte("redis_url: rediss://example:6379\n"), "test.yml")
	require.NoError(t, err)
	assert.Equal(t, "rediss://example:6379", cfg.RedisURL)
}

func TestBackupEnabled(t *testing.T) {
	cfg := BackupConfig{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"}
	assert.True(t, cfg.Enabled())

	cfg.SecretAccessKey = " "
	assert.False(t, cfg.Enabled())
}
