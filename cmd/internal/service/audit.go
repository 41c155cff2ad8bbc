package service

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/events"
	"indicacoes/cmd/internal/metrics"
	"indicacoes/cmd/internal/utils/uid"
	"time"
)

type LogRepository interface {
	Append(ctx context.Context, entry *entity.LogEntry) error
	FindByRef(ctx context.Context, tab, refID string) ([]*entity.LogEntry, error)
}

// LogError reports a Logs row that could not be written. Callers discard it:
// a failed audit write never fails the mutation it describes.
type LogError struct {
	Tab   string
	RefID string
	Err   error
}

func (e *LogError) Error() string {
	return fmt.Sprintf("audit log for %s/%s: %v", e.Tab, e.RefID, e.Err)
}

func (e *LogError) Unwrap() error {
	return e.Err
}

type AuditLogger struct {
	LogRepo LogRepository
	Now     func() time.Time
}

func NewAuditLogger(logRepo LogRepository) *AuditLogger {
	return &AuditLogger{LogRepo: logRepo, Now: time.Now}
}

// Record appends one Logs row for ev. Failures are logged, counted and
// returned; they are never retried here.
func (a *AuditLogger) Record(ctx context.Context, ev events.AuditEvent, ator string) *LogError {
	payload, err := json.Marshal(ev)
	if err != nil {
		return a.fail(ev, err)
	}

	entry := &entity.LogEntry{
		ID:        uid.LogID(),
		Tab:       ev.Tab(),
		RefID:     ev.RefID(),
		Acao:      ev.GetType(),
		Ator:      ator,
		Payload:   string(payload),
		Timestamp: timestamp(a.Now),
	}

	if err := a.LogRepo.Append(ctx, entry); err != nil {
		return a.fail(ev, err)
	}
	return nil
}

func (a *AuditLogger) fail(ev events.AuditEvent, err error) *LogError {
	metrics.AuditFailures.Inc()
	log.Warnf("failed to write audit log for %s %s: %v", ev.Tab(), ev.RefID(), err)
	return &LogError{Tab: ev.Tab(), RefID: ev.RefID(), Err: err}
}
