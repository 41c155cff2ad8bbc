package gsheets

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"indicacoes/cmd/internal/metrics"
)

const (
	DefaultRetryBase     = 1 * time.Second
	DefaultRetryMax      = 32 * time.Second
	DefaultRetryAttempts = 8
)

// RetryPolicy is an exponential backoff: Base, 2*Base, 4*Base... capped at
// Max, for at most Attempts calls in total.
type RetryPolicy struct {
	Base     time.Duration
	Max      time.Duration
	Attempts int

	// Sleep waits between attempts. Defaults to a context aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Base <= 0 {
		p.Base = DefaultRetryBase
	}
	if p.Max < p.Base {
		p.Max = max(DefaultRetryMax, p.Base)
	}
	if p.Attempts <= 0 {
		p.Attempts = DefaultRetryAttempts
	}
	if p.Sleep == nil {
		p.Sleep = sleepWithContext
	}
	return p
}

// Retrying decorates a Backend, retrying transient failures only.
// Permanent failures are returned untouched on the first occurrence.
type Retrying struct {
	next   Backend
	policy RetryPolicy
}

var _ Backend = (*Retrying)(nil)

func WithRetry(next Backend, policy RetryPolicy) *Retrying {
	return &Retrying{next: next, policy: policy.normalized()}
}

func (r *Retrying) ReadHeader(ctx context.Context, table string) ([]string, error) {
	return retryValue(ctx, r, "read_header", table, func() ([]string, error) {
		return r.next.ReadHeader(ctx, table)
	})
}

func (r *Retrying) ReadRows(ctx context.Context, table string) ([][]any, error) {
	return retryValue(ctx, r, "read_rows", table, func() ([][]any, error) {
		return r.next.ReadRows(ctx, table)
	})
}

func (r *Retrying) ReadColumn(ctx context.Context, table string, col int) ([]any, error) {
	return retryValue(ctx, r, "read_column", table, func() ([]any, error) {
		return r.next.ReadColumn(ctx, table, col)
	})
}

func (r *Retrying) ReadRow(ctx context.Context, table string, row int) ([]any, error) {
	return retryValue(ctx, r, "read_row", table, func() ([]any, error) {
		return r.next.ReadRow(ctx, table, row)
	})
}

func (r *Retrying) AppendRows(ctx context.Context, table string, rows [][]any) error {
	_, err := retryValue(ctx, r, "append_rows", table, func() (struct{}, error) {
		return struct{}{}, r.next.AppendRows(ctx, table, rows)
	})
	return err
}

func (r *Retrying) WriteRow(ctx context.Context, table string, row int, values []any) error {
	_, err := retryValue(ctx, r, "write_row", table, func() (struct{}, error) {
		return struct{}{}, r.next.WriteRow(ctx, table, row, values)
	})
	return err
}

func retryValue[T any](ctx context.Context, r *Retrying, op, table string, fn func() (T, error)) (T, error) {
	delay := r.policy.Base
	for attempt := 1; ; attempt++ {
		val, err := fn()
		if err == nil || !IsTransient(err) {
			return val, err
		}

		if attempt >= r.policy.Attempts {
			var zero T
			return zero, fmt.Errorf("%w: %s %q after %d attempts: %w", ErrRetriesExhausted, op, table, attempt, err)
		}

		log.Warnf("gsheets %s %q failed (attempt %d/%d), retrying in %s: %v",
			op, table, attempt, r.policy.Attempts, delay, err)
		metrics.BackendRetries.WithLabelValues(op).Inc()

		if serr := r.policy.Sleep(ctx, delay); serr != nil {
			var zero T
			return zero, serr
		}
		delay = min(delay*2, r.policy.Max)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
