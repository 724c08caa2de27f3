package storage

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// DefaultRedisPrefix namespaces all keys written by the redis backend.
const DefaultRedisPrefix = "einkplacer:"

// RedisStore keeps layouts in redis.
//
// Keys, relative to the configured prefix:
//
//	layout:<id>   JSON document of one layout
//	layouts       sorted set of ids scored by creation time (unix ms)
//	names         hash of filename -> id
//	latest        id of the newest layout
type RedisStore struct {
	client *redis.Client
	prefix string
	opts   settings
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig, opts ...Option) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	return newRedisStore(client, cfg.Prefix, opts...), nil
}

func newRedisStore(client *redis.Client, prefix string, opts ...Option) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, opts: buildOptions(opts)}
}

func (s *RedisStore) layoutKey(id string) string { return s.prefix + "layout:" + id }
func (s *RedisStore) indexKey() string           { return s.prefix + "layouts" }
func (s *RedisStore) namesKey() string           { return s.prefix + "names" }
func (s *RedisStore) latestKey() string          { return s.prefix + "latest" }

func (s *RedisStore) Save(ctx context.Context, records []layoutio.Record) (layoutio.Summary, error) {
	meta := s.opts.newMetadata()
	doc := &layoutio.Document{Elements: records, Metadata: &meta}
	if doc.Elements == nil {
		doc.Elements = []layoutio.Record{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return layoutio.Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}

	key := s.layoutKey(meta.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(meta.CreatedAt.UnixMilli()), Member: meta.ID})
		pipe.HSet(ctx, s.namesKey(), meta.Filename, meta.ID)
		pipe.Set(ctx, s.latestKey(), meta.ID, 0)
		return nil
	})
	if err != nil {
		return layoutio.Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "save layout to redis")
	}

	s.opts.logger.Debug("saved layout", "backend", BackendRedis, "key", key, "elements", len(records))
	return summarize(meta, redisPath(key)), nil
}

func (s *RedisStore) Latest(ctx context.Context) (*layoutio.Document, error) {
	id, err := s.client.Get(ctx, s.latestKey()).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read latest layout id")
	}
	return s.load(ctx, id)
}

func (s *RedisStore) Get(ctx context.Context, name string) (*layoutio.Document, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	if IsLatest(name) {
		return s.Latest(ctx)
	}

	id, err := s.client.HGet(ctx, s.namesKey(), name).Result()
	switch {
	case err == redis.Nil:
		id = name
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve layout %s", name)
	}
	return s.load(ctx, id)
}

func (s *RedisStore) List(ctx context.Context) ([]layoutio.Summary, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layout index")
	}
	if len(ids) == 0 {
		return []layoutio.Summary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.layoutKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layouts")
	}

	out := make([]layoutio.Summary, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			s.opts.logger.Warn("layout index points at missing key", "key", keys[i])
			continue
		}
		doc, err := layoutio.Unmarshal([]byte(raw))
		if err != nil || doc.Metadata == nil {
			s.opts.logger.Warn("skipping unreadable layout", "key", keys[i], "err", err)
			continue
		}
		out = append(out, summarize(*doc.Metadata, redisPath(keys[i])))
	}

	sortSummaries(out)
	return out, nil
}

func (s *RedisStore) load(ctx context.Context, id string) (*layoutio.Document, error) {
	data, err := s.client.Get(ctx, s.layoutKey(id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layout %s", id)
	}
	doc, err := layoutio.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode layout %s", id)
	}
	return doc, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func redisPath(key string) string { return "redis://" + key }

var _ Store = (*RedisStore)(nil)
