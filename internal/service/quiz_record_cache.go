package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cachedQuizStore keeps recently read records in a domain.Cache. History
// listings always go to the underlying store.
type cachedQuizStore struct {
	next    domain.QuizStore
	cache   domain.Cache
	ttl     time.Duration
	sfGroup singleflight.Group
}

// NewCachedQuizStore wraps next with a read-through cache. A nil cache returns next unchanged.
func NewCachedQuizStore(next domain.QuizStore, c domain.Cache, ttl time.Duration) domain.QuizStore {
	if c == nil {
		logger.Get().Info("Quiz record cache disabled")
		return next
	}
	return &cachedQuizStore{next: next, cache: c, ttl: ttl}
}

// Save writes through to the cache after the record is stored.
func (s *cachedQuizStore) Save(ctx context.Context, url, title string, scrapedContent *string, quiz *domain.QuizOutput) (*domain.QuizRecord, error) {
	record, err := s.next.Save(ctx, url, title, scrapedContent, quiz)
	if err != nil {
		return nil, err
	}
	s.put(ctx, record)
	return record, nil
}

func (s *cachedQuizStore) ListAll(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.next.ListAll(ctx)
}

func (s *cachedQuizStore) Get(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	key := cache.QuizRecordKey(id)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var record domain.QuizRecord
		jsonErr := json.Unmarshal([]byte(cached), &record)
		if jsonErr == nil {
			logger.Get().Debug("Quiz record cache hit", zap.String("key", key))
			return &record, nil
		}
		logger.Get().Warn("Discarding undecodable cached quiz record", zap.String("key", key), zap.Error(jsonErr))
	case errors.Is(err, domain.ErrCacheMiss):
		logger.Get().Debug("Quiz record cache miss", zap.String("key", key))
	default:
		logger.Get().Warn("Quiz record cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		record, err := s.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		s.put(ctx, record)
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.QuizRecord), nil
}

func (s *cachedQuizStore) put(ctx context.Context, record *domain.QuizRecord) {
	key := cache.QuizRecordKey(record.ID)
	data, err := json.Marshal(record)
	if err != nil {
		logger.Get().Error("Failed to marshal quiz record for caching", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Warn("Failed to cache quiz record", zap.String("key", key), zap.Error(err))
	}
}

var _ domain.QuizStore = (*cachedQuizStore)(nil)
