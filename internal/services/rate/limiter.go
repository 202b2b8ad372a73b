package rate

import (
	"context"
	"fmt"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter enforces two per-client windows: a general API budget and a
// much tighter budget for report submissions.
type Limiter struct {
	store         WindowStore
	generalMax    int
	generalWindow time.Duration
	reportMax     int
	reportWindow  time.Duration
}

func NewLimiter(store WindowStore, generalMax int, generalWindow time.Duration, reportMax int, reportWindow time.Duration) *Limiter {
	if generalMax < 0 {
		generalMax = 0
	}
	if reportMax < 0 {
		reportMax = 0
	}

	return &Limiter{
		store:         store,
		generalMax:    generalMax,
		generalWindow: generalWindow,
		reportMax:     reportMax,
		reportWindow:  reportWindow,
	}
}

// AllowRequest counts one general API request for the client. It
// returns the retry-after in seconds when the budget is exhausted.
func (l *Limiter) AllowRequest(ctx context.Context, clientHash string) (int64, bool, error) {
	return l.allow(ctx, generalKey(clientHash), l.generalMax, l.generalWindow)
}

// AllowReport counts one report submission for the client.
func (l *Limiter) AllowReport(ctx context.Context, clientHash string) (int64, bool, error) {
	return l.allow(ctx, reportKey(clientHash), l.reportMax, l.reportWindow)
}

func (l *Limiter) allow(ctx context.Context, key string, max int, window time.Duration) (int64, bool, error) {
	if key == "" {
		return 0, false, fmt.Errorf("client hash is required")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}
	if max <= 0 || window <= 0 {
		return 0, true, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, key, window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(max) {
		return ceilSeconds(ttl), false, nil
	}

	return 0, true, nil
}

func generalKey(clientHash string) string {
	return "rate:general:" + clientHash
}

func reportKey(clientHash string) string {
	return "rate:reports:" + clientHash
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
