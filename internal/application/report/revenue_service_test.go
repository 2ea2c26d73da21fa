package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/client/internal/domain/report"
	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

type fakeSource struct {
	mu     sync.Mutex
	points []report.Point
	err    error
	calls  int
}

func (f *fakeSource) RevenueSeries(ctx context.Context, period report.Period) ([]report.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]report.Point(nil), f.points...), nil
}

func samplePoints() []report.Point {
	return []report.Point{
		{Bucket: "2024-05-01", Revenue: valueobject.NewMoneyIDR(125000000)},
		{Bucket: "2024-05-02", Revenue: valueobject.NewMoneyIDR(98000000)},
	}
}

func TestService_Series(t *testing.T) {
	t.Run("rejects unknown period", func(t *testing.T) {
		s := NewService(&fakeSource{})
		_, err := s.Series(context.Background(), report.Period("hourly"))
		assert.ErrorIs(t, err, report.ErrInvalidPeriod)
	})

	t.Run("serves from cache within TTL", func(t *testing.T) {
		source := &fakeSource{points: samplePoints()}
		s := NewService(source)

		first, err := s.Series(context.Background(), report.PeriodDaily)
		require.NoError(t, err)
		second, err := s.Series(context.Background(), report.PeriodDaily)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("caches per period", func(t *testing.T) {
		source := &fakeSource{points: samplePoints()}
		s := NewService(source)

		_, err := s.Series(context.Background(), report.PeriodDaily)
		require.NoError(t, err)
		_, err = s.Series(context.Background(), report.PeriodMonthly)
		require.NoError(t, err)
		assert.Equal(t, 2, source.calls)
	})

	t.Run("refetches after expiry", func(t *testing.T) {
		source := &fakeSource{points: samplePoints()}
		s := NewService(source, WithTTL(10*time.Millisecond))

		_, err := s.Series(context.Background(), report.PeriodWeekly)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			_, err := s.Series(context.Background(), report.PeriodWeekly)
			require.NoError(t, err)
			source.mu.Lock()
			defer source.mu.Unlock()
			return source.calls >= 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("fetch failure is not cached", func(t *testing.T) {
		source := &fakeSource{err: errors.New("connection refused")}
		s := NewService(source)

		_, err := s.Series(context.Background(), report.PeriodDaily)
		assert.Error(t, err)

		source.mu.Lock()
		source.err = nil
		source.points = samplePoints()
		source.mu.Unlock()

		points, err := s.Series(context.Background(), report.PeriodDaily)
		require.NoError(t, err)
		assert.Len(t, points, 2)
	})

	t.Run("callers cannot mutate the cached series", func(t *testing.T) {
		source := &fakeSource{points: samplePoints()}
		s := NewService(source)

		first, err := s.Series(context.Background(), report.PeriodDaily)
		require.NoError(t, err)
		first[0].Bucket = "mutated"

		second, err := s.Series(context.Background(), report.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", second[0].Bucket)
	})
}
