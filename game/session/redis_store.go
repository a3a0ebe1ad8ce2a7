package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces game records in the shared keyspace.
const keyPrefix = "ttt:game:"

// casScript performs the conditional save atomically on the server.
// ARGV[1] is the version the caller loaded (0 = record must not exist),
// ARGV[2] the new JSON value (version already bumped), ARGV[3] the TTL in
// seconds (0 = no expiry). Returns 1 on success, 0 on a version conflict,
// -1 when updating a missing record.
var casScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
local expect = tonumber(ARGV[1])
if not cur then
  if expect ~= 0 then
    return -1
  end
elseif tonumber(cjson.decode(cur)['version']) ~= expect then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'EX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// RedisStore implements Store against a Redis server, one JSON value per
// namespaced key. This is the adapter that makes the request handlers
// stateless: any process holding the same Redis URL can serve any game.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to the given redis:// or rediss:// URL and
// verifies the connection with a ping. A non-zero ttl expires idle games.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Load retrieves the record for id.
func (s *RedisStore) Load(ctx context.Context, id string) (Record, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rec, nil
}

// Save writes rec under id with an atomic server-side version check.
func (s *RedisStore) Save(ctx context.Context, id string, rec Record) (Record, error) {
	expect := rec.Version
	rec.Version++

	raw, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal game record: %w", err)
	}

	ttlSeconds := int64(s.ttl / time.Second)
	res, err := casScript.Run(ctx, s.rdb, []string{gameKey(id)}, expect, raw, ttlSeconds).Int()
	if err != nil {
		return Record{}, fmt.Errorf("redis conditional set: %w", err)
	}
	switch res {
	case 1:
		return rec, nil
	case 0:
		return Record{}, ErrVersionConflict
	default:
		return Record{}, ErrNotFound
	}
}

// Delete removes the record for id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List scans the keyspace for game IDs.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return ids, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func gameKey(id string) string {
	return keyPrefix + strings.TrimSpace(id)
}

// ParseRedisURL converts a redis:// or rediss:// URL into client options.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	opts := &redis.Options{Addr: u.Host, Password: pass, DB: db}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}
	return opts, nil
}
