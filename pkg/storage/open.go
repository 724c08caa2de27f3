package storage

import (
	"context"

	"github.com/matzehuels/einkplacer/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config selects and configures a storage backend.
type Config struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// DefaultConfig returns a file backend writing to ./layouts, with local
// defaults for the redis and mongo backends.
func DefaultConfig() Config {
	return Config{
		Backend: BackendFile,
		Dir:     DefaultDir,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: DefaultRedisPrefix,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "einkplacer",
			Collection: "layouts",
		},
	}
}

// Open creates the configured backend, wrapped with [Instrument].
func Open(ctx context.Context, cfg Config, opts ...Option) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore(opts...)
	case BackendFile, "":
		s, err = NewFileStore(cfg.Dir, opts...)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis, opts...)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo, opts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	return Instrument(s, backend), nil
}
