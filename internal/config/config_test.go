package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type ConfigUnitSuite struct {
	suite.Suite
}

var envKeys = []string{
	"HTTP_PORT", "HTTP_PUBLIC_URL", "HTTP_MODE",
	"SESSION_STORE", "SESSION_TTL", "SESSION_MAX_RETRIES",
	"CATALOG_SOURCE", "CATALOG_CSV_PATH", "CATALOG_REFRESH_INTERVAL",
	"BROADCAST_MODE", "REDIS_DB",
}

func clearEnv(t provider.T) {
	for _, key := range envKeys {
		prev, ok := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		if ok {
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		}
	}
}

// Suite methods run sequentially since they all touch the environment.

func (s *ConfigUnitSuite) TestDefaults(t provider.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:8080", cfg.HTTP.PublicURL)
	assert.Equal(t, ModeReadWrite, cfg.HTTP.Mode)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5, cfg.Session.MaxRetries)
	assert.Equal(t, SourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.RefreshInterval)
	assert.Equal(t, BroadcastLocal, cfg.Broadcast.Mode)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.NeedsRedis())
	assert.True(t, cfg.NeedsPostgres())
}

func (s *ConfigUnitSuite) TestEnvFile(t provider.T) {
	clearEnv(t)
	t.Cleanup(func() {
		for _, key := range envKeys {
			_ = os.Unsetenv(key)
		}
	})

	dir, err := os.MkdirTemp("", "config")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "test.env")
	content := "SESSION_STORE=redis\nSESSION_TTL=90m\nSESSION_MAX_RETRIES=7\n" +
		"CATALOG_SOURCE=csv\nCATALOG_CSV_PATH=/data/movies.csv\nBROADCAST_MODE=redis\nREDIS_DB=not-a-number\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	assert.NoError(t, godotenv.Load(path))

	cfg := FromEnv()

	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 7, cfg.Session.MaxRetries)
	assert.Equal(t, "/data/movies.csv", cfg.Catalog.CSVPath)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.NeedsRedis())
	assert.False(t, cfg.NeedsPostgres())
}

func (s *ConfigUnitSuite) TestValidate(t provider.T) {
	valid := func() *Config {
		return &Config{
			HTTP:      HTTPServer{Mode: ModeReadWrite},
			Session:   Session{Store: StoreMemory, MaxRetries: 5},
			Catalog:   Catalog{Source: SourcePostgres},
			Broadcast: Broadcast{Mode: BroadcastLocal},
		}
	}

	testCases := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{name: "Should accept defaults", mutate: func(c *Config) {}},
		{name: "Should reject unknown store", mutate: func(c *Config) { c.Session.Store = "etcd" }, expectError: true},
		{name: "Should reject csv without path", mutate: func(c *Config) { c.Catalog.Source = SourceCSV }, expectError: true},
		{name: "Should reject unknown broadcast", mutate: func(c *Config) { c.Broadcast.Mode = "kafka" }, expectError: true},
		{name: "Should accept read-only mode", mutate: func(c *Config) { c.HTTP.Mode = ModeReadOnly }},
		{name: "Should reject unknown http mode", mutate: func(c *Config) { c.HTTP.Mode = "WO" }, expectError: true},
		{name: "Should reject zero retries", mutate: func(c *Config) { c.Session.MaxRetries = 0 }, expectError: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(ConfigUnitSuite))
}
