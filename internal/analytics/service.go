package analytics

import (
	"context"
	"time"

	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/config"
	"carequeue/internal/shared/constants"
	"carequeue/pkg/cache"
	"carequeue/pkg/logger"

	"github.com/google/uuid"
)

// Service assembles range summaries from history aggregates. Results are
// cached briefly; analytics reads stay off the scheduling hot path.
type Service interface {
	GetRangeSummary(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (*RangeSummary, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	cfg   *config.Config
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		cfg:   cfg,
		log:   log,
	}
}

func (s *service) GetRangeSummary(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (*RangeSummary, error) {
	if !to.After(from) {
		return nil, apperrors.Validation("date range end must be after start")
	}

	var summary RangeSummary
	key := summaryCacheKey(from, to, stationID)

	err := s.cache.GetOrSet(ctx, key, s.cfg.Redis.AnalyticsCacheTTL, func() (interface{}, error) {
		return s.buildSummary(ctx, from, to, stationID)
	}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) buildSummary(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (*RangeSummary, error) {
	byStatus, err := s.repo.CountByStatus(ctx, from, to, stationID)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.repo.CountByPriority(ctx, from, to, stationID)
	if err != nil {
		return nil, err
	}
	averages, err := s.repo.Averages(ctx, from, to, stationID)
	if err != nil {
		return nil, err
	}
	total, emergencies, skips, err := s.repo.Totals(ctx, from, to, stationID)
	if err != nil {
		return nil, err
	}

	return &RangeSummary{
		From:             from,
		To:               to,
		TotalCases:       total,
		EmergencyCases:   emergencies,
		TotalSkips:       skips,
		ByStatus:         byStatus,
		ByPriority:       byPriority,
		DurationAverages: *averages,
	}, nil
}

func summaryCacheKey(from, to time.Time, stationID *uuid.UUID) string {
	scope := "all"
	if stationID != nil {
		scope = stationID.String()
	}
	return constants.BuildAnalyticsRangeKey(scope, from, to)
}
