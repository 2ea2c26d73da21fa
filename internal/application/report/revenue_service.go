package report

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/invoicedesk/client/internal/domain/report"
)

// defaultTTL is how long a fetched series stays fresh. A dashboard
// flipping between periods should not re-hit the API on every switch.
const defaultTTL = time.Minute

// Service serves revenue time series with a short-lived per-period cache
type Service struct {
	source report.Source
	cache  *gocache.Cache
	logger *zap.Logger
}

// Option is a functional option for configuring the service
type Option func(*Service)

// WithLogger sets the logger for the service
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTTL overrides how long cached series stay fresh
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = gocache.New(ttl, 2*ttl)
	}
}

// NewService creates a revenue service over the given source
func NewService(source report.Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		cache:  gocache.New(defaultTTL, 2*defaultTTL),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Series returns the revenue series for the period, from cache when
// fresh. Callers receive a copy; the cached slice is never aliased out.
func (s *Service) Series(ctx context.Context, period report.Period) ([]report.Point, error) {
	if !period.IsValid() {
		return nil, report.ErrInvalidPeriod
	}

	if cached, ok := s.cache.Get(period.String()); ok {
		points := cached.([]report.Point)
		return append([]report.Point(nil), points...), nil
	}

	points, err := s.source.RevenueSeries(ctx, period)
	if err != nil {
		s.logger.Warn("revenue fetch failed", zap.String("period", period.String()), zap.Error(err))
		return nil, err
	}

	s.cache.Set(period.String(), points, gocache.DefaultExpiration)
	s.logger.Debug("revenue series cached", zap.String("period", period.String()), zap.Int("points", len(points)))
	return append([]report.Point(nil), points...), nil
}
