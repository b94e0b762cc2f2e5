package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddr      = "ACCOUNTS_HTTP_ADDR"
	EnvGRPCAddr      = "ACCOUNTS_GRPC_ADDR"
	EnvStorage       = "ACCOUNTS_STORAGE"
	EnvMongoURI      = "ACCOUNTS_MONGO_URI"
	EnvMongoDatabase = "ACCOUNTS_MONGO_DATABASE"
	EnvDatabaseDSN   = "ACCOUNTS_DATABASE_DSN"
	EnvSecretKey     = "ACCOUNTS_SECRET_KEY"
	EnvTokenLifetime = "ACCOUNTS_TOKEN_LIFETIME"
	EnvBcryptCost    = "ACCOUNTS_BCRYPT_COST"
	EnvHashWorkers   = "ACCOUNTS_HASH_WORKERS"
	EnvLogLevel      = "ACCOUNTS_LOG_LEVEL"
)

// parseEnv loads the dotenv file named by -env (default ".env") when it
// exists and then overlays ACCOUNTS_* variables. Variables already present in
// the process environment win over the file. Malformed numbers or durations
// panic, same as a broken JSON file.
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlag()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	if err := applyEnv(config, os.LookupEnv); err != nil {
		panic(err)
	}
}

func applyEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvHTTPAddr:      &config.EndpointAddrHTTP,
		EnvGRPCAddr:      &config.EndpointAddrGRPC,
		EnvStorage:       &config.StorageBackend,
		EnvMongoURI:      &config.MongoURI,
		EnvMongoDatabase: &config.MongoDatabase,
		EnvDatabaseDSN:   &config.DatabaseDSN,
		EnvSecretKey:     &config.SecretKey,
		EnvLogLevel:      &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvTokenLifetime); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenLifetime, err)
		}
		config.TokenLifetime = d
	}

	ints := map[string]*int{
		EnvBcryptCost:  &config.BcryptCost,
		EnvHashWorkers: &config.HashWorkers,
	}
	for name, dst := range ints {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}

	return nil
}
