package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http": "www.example:8081",
		"endpoint_addr_grpc": "www.example:9000",
		"storage_backend":    "sqlite",
		"mongo_uri":          "mongodb://db:27017",
		"mongo_database":     "people",
		"database_dsn":       "accounts.db",
		"secret_key":         "my_secret_key",
		"token_lifetime":     "15m",
		"bcrypt_cost":        12,
		"hash_workers":       2,
		"log_level":          "debug",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, &Config{
			EndpointAddrHTTP: "www.example:8081",
			EndpointAddrGRPC: "www.example:9000",
			StorageBackend:   StorageSQLite,
			MongoURI:         "mongodb://db:27017",
			MongoDatabase:    "people",
			DatabaseDSN:      "accounts.db",
			SecretKey:        "my_secret_key",
			TokenLifetime:    15 * time.Minute,
			BcryptCost:       12,
			HashWorkers:      2,
			LogLevel:         "debug",
		}, cfg)
	})

	t.Run("partial file keeps the rest", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"secret_key":     "rotated",
			"token_lifetime": float64(2 * time.Minute),
		})
		os.Args = []string{"testbin", "-c", partial}

		var cfg Config
		cfg.LoadDefaults()
		parseJson(&cfg)

		assert.Equal(t, "rotated", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.TokenLifetime)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 10, cfg.BcryptCost)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		var cfg Config
		cfg.LoadDefaults()
		want := cfg
		parseJson(&cfg)

		assert.Equal(t, want, cfg)
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
