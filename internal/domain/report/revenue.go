package report

import (
	"context"

	"github.com/invoicedesk/client/internal/domain/shared"
	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

// Period selects the bucketing of the revenue time series
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// IsValid checks if the period is a supported bucketing
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// ErrInvalidPeriod indicates an unsupported revenue period
var ErrInvalidPeriod = shared.NewDomainError("INVALID_PERIOD", "Revenue period must be daily, weekly or monthly")

// Point is one bucket of the revenue time series
type Point struct {
	Bucket  string
	Revenue valueobject.Money
}

// Source fetches revenue series from the external API
type Source interface {
	RevenueSeries(ctx context.Context, period Period) ([]Point, error)
}
