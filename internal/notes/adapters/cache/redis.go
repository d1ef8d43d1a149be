// Package cache содержит реализацию кэширования списков заметок в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"threadnotes/internal/notes/domain/entities"
	"threadnotes/internal/notes/ports/cache"
	"threadnotes/pkg/logger"
)

// Константы для логирования.
const (
	ErrorFailedToGet        = "failed to get notes from redis"
	ErrorFailedToSet        = "failed to set notes in redis"
	ErrorFailedToGeneration = "failed to read notes generation from redis"
	ErrorFailedToInvalidate = "failed to invalidate notes in redis"
	ErrorFailedToDecode     = "failed to decode cached notes"
	ErrorFailedToClose      = "failed to close redis connection"
)

const (
	keyPrefix     = "notes:list:"
	genPrefix     = "notes:gen:"
	fieldAll      = "all"
	fieldThreadID = "thread:"
)

// RedisNoteListCache хранит списки заметок пользователя в одном hash:
// поле "all" для List и "thread:<id>" для ListByThread. Invalidate удаляет весь hash
// и увеличивает счетчик поколения "notes:gen:<user>", который живет без TTL.
type RedisNoteListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNoteListCache создает кэш поверх готового клиента.
func NewRedisNoteListCache(client *redis.Client, ttl time.Duration) cache.NoteListCache {
	return &RedisNoteListCache{client: client, ttl: ttl}
}

func userKey(userID string) string {
	return keyPrefix + userID
}

func genKey(userID string) string {
	return genPrefix + userID
}

func listField(threadID string) string {
	if threadID == cache.AllThreads {
		return fieldAll
	}
	return fieldThreadID + threadID
}

// GetList возвращает закэшированный список.
func (c *RedisNoteListCache) GetList(ctx context.Context, userID, threadID string) ([]*entities.Note, bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "RedisNoteListCache.GetList"), zap.String("userID", userID))

	raw, err := c.client.HGet(ctx, userKey(userID), listField(threadID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	notes := make([]*entities.Note, 0)
	if err := json.Unmarshal(raw, &notes); err != nil {
		log.Error(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}

	log.Debug(ctx, "notes served from cache", zap.Int("count", len(notes)))
	return notes, true, nil
}

// Generation возвращает текущее поколение списков пользователя. Отсутствующий ключ - поколение 0.
func (c *RedisNoteListCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := readGeneration(ctx, c.client, userID)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToGeneration, zap.String("userID", userID), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToGeneration, err)
	}
	return gen, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd stringGetter, userID string) (int64, error) {
	gen, err := cmd.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetList сохраняет список и продлевает TTL hash пользователя. Запись пропускается,
// если поколение изменилось после чтения generation.
func (c *RedisNoteListCache) SetList(ctx context.Context, userID, threadID string, generation int64, notes []*entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "RedisNoteListCache.SetList"), zap.String("userID", userID))

	raw, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	key := userKey(userID)
	stale := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != generation {
			stale = true
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, listField(threadID), raw)
			if c.ttl > 0 {
				pipe.Expire(ctx, key, c.ttl)
			}
			return nil
		})
		return err
	}, genKey(userID))
	if errors.Is(err, redis.TxFailedErr) {
		stale, err = true, nil
	}
	if err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	if stale {
		log.Debug(ctx, "stale notes list dropped", zap.Int64("generation", generation))
	}

	return nil
}

// Invalidate удаляет все закэшированные списки пользователя.
func (c *RedisNoteListCache) Invalidate(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", "RedisNoteListCache.Invalidate"), zap.String("userID", userID))

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(userID))
		pipe.Del(ctx, userKey(userID))
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToInvalidate, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToInvalidate, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisNoteListCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}

// NopNoteListCache используется, когда Redis отключен.
type NopNoteListCache struct{}

// NewNop возвращает кэш, который всегда промахивается.
func NewNop() cache.NoteListCache {
	return NopNoteListCache{}
}

func (NopNoteListCache) GetList(context.Context, string, string) ([]*entities.Note, bool, error) {
	return nil, false, nil
}

func (NopNoteListCache) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (NopNoteListCache) SetList(context.Context, string, string, int64, []*entities.Note) error {
	return nil
}

func (NopNoteListCache) Invalidate(context.Context, string) error {
	return nil
}

func (NopNoteListCache) Close() error {
	return nil
}
