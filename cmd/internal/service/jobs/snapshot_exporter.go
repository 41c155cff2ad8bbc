package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/utils/validators"
)

const DefaultSnapshotInterval = 24 * time.Hour

type TableEncoder interface {
	TableCSV(ctx context.Context, table string) ([]byte, error)
}

type Uploader interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)
}

// SnapshotExporter periodically copies every table to object storage as CSV.
type SnapshotExporter struct {
	encoder  TableEncoder
	uploader Uploader
	tables   []string
	interval time.Duration
	now      func() time.Time
}

func NewSnapshotExporter(encoder TableEncoder, uploader Uploader, tables []string, interval time.Duration) *SnapshotExporter {
	if interval <= 0 {
		interval = DefaultSnapshotInterval
	}
	return &SnapshotExporter{
		encoder:  encoder,
		uploader: uploader,
		tables:   tables,
		interval: interval,
		now:      time.Now,
	}
}

func (s *SnapshotExporter) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Infof("Snapshot exporter cron started, every %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping snapshot exporter...")
			return
		case <-ticker.C:
			s.export(ctx)
		}
	}
}

// export uploads one object per table. A failing table is logged and
// skipped so the others still get their snapshot.
func (s *SnapshotExporter) export(ctx context.Context) int {
	day := s.now().UTC().Format(validators.DateLayout)

	uploaded := 0
	for _, table := range s.tables {
		data, err := s.encoder.TableCSV(ctx, table)
		if err != nil {
			log.Errorf("Snapshot: failed to read %s: %v", table, err)
			continue
		}

		name := fmt.Sprintf("%s/%s-%s.csv", day, table, uuid.NewString())
		key, err := s.uploader.UploadFile(ctx, data, name)
		if err != nil {
			log.Errorf("Snapshot: failed to upload %s: %v", table, err)
			continue
		}

		log.Debugf("Snapshot: uploaded %s (%d bytes)", key, len(data))
		uploaded++
	}
	return uploaded
}
