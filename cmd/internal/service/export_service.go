package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/utils/apierror"
)

// TableReader is the raw read path of the spreadsheet backend.
type TableReader interface {
	ReadHeader(ctx context.Context, table string) ([]string, error)
	ReadRows(ctx context.Context, table string) ([][]any, error)
}

type ExportService struct {
	Reader TableReader
}

func NewExportService(reader TableReader) *ExportService {
	return &ExportService{Reader: reader}
}

func (e *ExportService) Export(ctx context.Context, table string) ([]byte, apierror.ErrorResponse) {
	data, err := e.TableCSV(ctx, table)
	if err != nil {
		log.Errorf("failed to export %s: %v", table, err)
		return nil, apierror.FromStoreError(err)
	}
	return data, nil
}

// TableCSV renders table as CSV in sheet order: the header, then every
// non-blank row padded to the header width.
func (e *ExportService) TableCSV(ctx context.Context, table string) ([]byte, error) {
	header, err := e.Reader.ReadHeader(ctx, table)
	if err != nil {
		return nil, err
	}

	rows, err := e.Reader.ReadRows(ctx, table)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		blank := true
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = sheetstore.Render(row[i])
			}
			if record[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
