package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"spamwatch-admin/models"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Println("✅ Redis connected successfully")
	return client, nil
}

// A view lives in two keys sharing one hash tag: a hash with the selection
// and sequence counters, and a string with the JSON encoded records.
func stateKey(id string) string   { return fmt.Sprintf("view:{%s}", id) }
func recordsKey(id string) string { return fmt.Sprintf("view:{%s}:records", id) }

var beginScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
local seq = redis.call('HINCRBY', KEYS[1], 'issued', 1)
redis.call('HSET', KEYS[1], 'isSpam', ARGV[1], 'type', ARGV[2], 'loading', '1')
redis.call('PEXPIRE', KEYS[1], ARGV[3])
redis.call('PEXPIRE', KEYS[2], ARGV[3])
return seq
`)

var resolveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
local seq = tonumber(ARGV[1])
local applied = tonumber(redis.call('HGET', KEYS[1], 'applied') or '0')
if seq <= applied then
  return 0
end
local issued = tonumber(redis.call('HGET', KEYS[1], 'issued') or '0')
redis.call('HSET', KEYS[1], 'applied', ARGV[1], 'loaded', '1')
if seq >= issued then
  redis.call('HSET', KEYS[1], 'loading', '0')
end
if ARGV[4] == '1' then
  redis.call('SET', KEYS[2], ARGV[2])
  redis.call('HSET', KEYS[1], 'appliedIsSpam', ARGV[5], 'appliedType', ARGV[6])
end
redis.call('PEXPIRE', KEYS[1], ARGV[3])
redis.call('PEXPIRE', KEYS[2], ARGV[3])
return 1
`)

// RedisViewStore shares view state between dashboard replicas.
type RedisViewStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisViewStore(client *redis.Client, ttl time.Duration) *RedisViewStore {
	return &RedisViewStore{client: client, ttl: ttl}
}

func (s *RedisViewStore) Create(ctx context.Context, id string, filters models.Filters) (ViewState, error) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, stateKey(id),
			"isSpam", string(filters.IsSpam),
			"type", string(filters.Type),
			"issued", 0,
			"applied", 0,
			"loading", 1,
			"loaded", 0,
		)
		pipe.PExpire(ctx, stateKey(id), s.ttl)
		pipe.Set(ctx, recordsKey(id), "[]", s.ttl)
		return nil
	})
	if err != nil {
		return ViewState{}, fmt.Errorf("create view %s: %w", id, err)
	}
	return ViewState{ID: id, Filters: filters, Records: []models.Message{}, Loading: true}, nil
}

func (s *RedisViewStore) Get(ctx context.Context, id string) (ViewState, error) {
	var (
		stateCmd   *redis.MapStringStringCmd
		recordsCmd *redis.StringCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		stateCmd = pipe.HGetAll(ctx, stateKey(id))
		recordsCmd = pipe.Get(ctx, recordsKey(id))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return ViewState{}, fmt.Errorf("get view %s: %w", id, err)
	}

	fields := stateCmd.Val()
	if len(fields) == 0 {
		return ViewState{}, ErrViewNotFound
	}

	v := ViewState{
		ID: id,
		Filters: models.Filters{
			IsSpam: models.SpamFilter(fields["isSpam"]),
			Type:   models.TypeFilter(fields["type"]),
		},
		AppliedFilters: models.Filters{
			IsSpam: models.SpamFilter(fields["appliedIsSpam"]),
			Type:   models.TypeFilter(fields["appliedType"]),
		},
		Loading:    fields["loading"] == "1",
		Loaded:     fields["loaded"] == "1",
		IssuedSeq:  parseSeq(fields["issued"]),
		AppliedSeq: parseSeq(fields["applied"]),
		Records:    []models.Message{},
	}

	if raw, err := recordsCmd.Bytes(); err == nil {
		if err := json.Unmarshal(raw, &v.Records); err != nil {
			return ViewState{}, fmt.Errorf("decode view %s records: %w", id, err)
		}
	}
	return v, nil
}

func (s *RedisViewStore) Begin(ctx context.Context, id string, filters models.Filters) (ViewState, error) {
	seq, err := beginScript.Run(ctx, s.client,
		[]string{stateKey(id), recordsKey(id)},
		string(filters.IsSpam), string(filters.Type), s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return ViewState{}, fmt.Errorf("begin view %s: %w", id, err)
	}
	if seq < 0 {
		return ViewState{}, ErrViewNotFound
	}
	return s.Get(ctx, id)
}

func (s *RedisViewStore) Apply(ctx context.Context, id string, seq uint64, filters models.Filters, records []models.Message) (ViewState, bool, error) {
	if records == nil {
		records = []models.Message{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return ViewState{}, false, fmt.Errorf("encode view %s records: %w", id, err)
	}
	return s.resolve(ctx, id, seq, filters, string(payload), true)
}

func (s *RedisViewStore) Fail(ctx context.Context, id string, seq uint64) (ViewState, bool, error) {
	return s.resolve(ctx, id, seq, models.Filters{}, "", false)
}

func (s *RedisViewStore) resolve(ctx context.Context, id string, seq uint64, filters models.Filters, payload string, ok bool) (ViewState, bool, error) {
	flag := "0"
	if ok {
		flag = "1"
	}
	res, err := resolveScript.Run(ctx, s.client,
		[]string{stateKey(id), recordsKey(id)},
		strconv.FormatUint(seq, 10), payload, s.ttl.Milliseconds(), flag,
		string(filters.IsSpam), string(filters.Type),
	).Int64()
	if err != nil {
		return ViewState{}, false, fmt.Errorf("resolve view %s: %w", id, err)
	}
	if res < 0 {
		return ViewState{}, false, ErrViewNotFound
	}

	v, err := s.Get(ctx, id)
	return v, res == 1, err
}

func parseSeq(raw string) uint64 {
	n, _ := strconv.ParseUint(raw, 10, 64)
	return n
}
