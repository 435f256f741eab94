package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/provisioning-service/internal/config"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/persistence"
	"github.com/spec-kit/provisioning-service/internal/repository"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// StatusService serves the context-scoped status vocabulary with a Redis
// read-through cache. Cache failures degrade to database reads.
type StatusService struct {
	statuses repository.StatusRepository
	cache    *persistence.Redis
	logger   *zap.Logger
}

// NewStatusService constructs the service.
func NewStatusService(statuses repository.StatusRepository, cache *persistence.Redis, logger *zap.Logger) *StatusService {
	return &StatusService{statuses: statuses, cache: cache, logger: logger}
}

// ListStatuses returns the ordered vocabulary for the context. An unknown
// context yields an empty list, never an error.
func (s *StatusService) ListStatuses(ctx context.Context, contextName domain.StatusContext) ([]domain.Status, error) {
	key := "statuses:" + string(contextName)
	if s.cacheReady() {
		raw, err := s.cache.Client.Get(ctx, key).Result()
		if err == nil {
			var cached []domain.Status
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	statuses, err := s.statuses.ListByContext(ctx, contextName)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cacheReady() {
		if raw, err := json.Marshal(statuses); err == nil {
			if err := s.cache.Client.Set(ctx, key, raw, config.StatusCacheTTL).Err(); err != nil && s.logger != nil {
				s.logger.Debug("status cache write failed", zap.Error(err))
			}
		}
	}
	return statuses, nil
}

func (s *StatusService) cacheReady() bool {
	return s.cache != nil && s.cache.Client != nil
}
