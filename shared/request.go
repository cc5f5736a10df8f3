package shared

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the format layout for candle request dates.
	DateLayout = "2006-01-02"
)

// CandleRequest represents a request for the candles of a symbol on a day
// at a fixed resolution. It is immutable and constructed once per widget
// mount.
type CandleRequest struct {
	Symbol     string
	Date       string
	Resolution Resolution
}

// NewCandleRequest initializes a new candle request.
func NewCandleRequest(symbol string, date string, resolution Resolution) CandleRequest {
	return CandleRequest{
		Symbol:     symbol,
		Date:       date,
		Resolution: resolution,
	}
}

// Validate asserts the request has sane inputs.
func (r *CandleRequest) Validate() error {
	var errs error

	if r.Symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("symbol cannot be an empty string"))
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		errs = errors.Join(errs, fmt.Errorf("parsing request date: %w", err))
	}

	return errs
}

// DateRange generates the inclusive sequence of dates between start and end.
func DateRange(start string, end string) ([]string, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}

	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s precedes start date %s", end, start)
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	dates := make([]string, 0, days)
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day.Format(DateLayout))
	}

	return dates, nil
}
