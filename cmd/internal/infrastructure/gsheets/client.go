package gsheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"indicacoes/cmd/internal/metrics"
)

const (
	renderUnformatted = "UNFORMATTED_VALUE"
	renderFormatted   = "FORMATTED_VALUE"
	inputRaw          = "RAW"
	insertRows        = "INSERT_ROWS"
)

// Credentials identifies the service account used to reach the spreadsheet.
type Credentials struct {
	ClientEmail string
	PrivateKey  string
}

type Options struct {
	SpreadsheetID string

	// RequestsPerMinute paces outgoing calls. Zero disables pacing.
	RequestsPerMinute int
}

// Client talks to a single spreadsheet through the Sheets v4 API.
//
// It is built once at startup and shared by every request. The
// authenticated service and the tab list are cached for the lifetime of
// the client and never re-resolved.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	limiter       *rate.Limiter

	mu   sync.Mutex
	tabs map[string]struct{}
}

var _ Backend = (*Client)(nil)

// NewClient authenticates with the service account and returns a ready client.
func NewClient(ctx context.Context, creds Credentials, opts Options) (*Client, error) {
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("gsheets: missing service account credentials")
	}

	cfg := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("gsheets: create service: %w", err)
	}
	return NewClientFromService(svc, opts)
}

// NewClientFromService wraps an already configured Sheets service.
func NewClientFromService(svc *sheets.Service, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("gsheets: missing spreadsheet id")
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerMinute > 0 {
		every := time.Minute / time.Duration(opts.RequestsPerMinute)
		limiter = rate.NewLimiter(rate.Every(every), max(1, opts.RequestsPerMinute/10))
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		limiter:       limiter,
	}, nil
}

func (c *Client) ReadHeader(ctx context.Context, table string) ([]string, error) {
	resp, err := c.getValues(ctx, "read_header", table, "1:1", renderFormatted, "")
	if err != nil {
		return nil, err
	}

	if len(resp.Values) == 0 {
		return []string{}, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return header, nil
}

func (c *Client) ReadRows(ctx context.Context, table string) ([][]any, error) {
	resp, err := c.getValues(ctx, "read_rows", table, "", renderUnformatted, "")
	if err != nil {
		return nil, err
	}

	if len(resp.Values) <= 1 {
		return [][]any{}, nil
	}
	return resp.Values[1:], nil
}

func (c *Client) ReadColumn(ctx context.Context, table string, col int) ([]any, error) {
	letter := ColumnName(col)
	resp, err := c.getValues(ctx, "read_column", table, letter+":"+letter, renderUnformatted, "COLUMNS")
	if err != nil {
		return nil, err
	}

	if len(resp.Values) == 0 {
		return []any{}, nil
	}
	return resp.Values[0], nil
}

func (c *Client) ReadRow(ctx context.Context, table string, row int) ([]any, error) {
	ref := fmt.Sprintf("%d:%d", row, row)
	resp, err := c.getValues(ctx, "read_row", table, ref, renderUnformatted, "")
	if err != nil {
		return nil, err
	}

	if len(resp.Values) == 0 {
		return []any{}, nil
	}
	return resp.Values[0], nil
}

func (c *Client) AppendRows(ctx context.Context, table string, rows [][]any) error {
	const op = "append_rows"
	if len(rows) == 0 {
		return nil
	}

	if err := c.prepare(ctx, op, table); err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: rows}
	start := time.Now()
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, quoteTable(table)+"!A1", vr).
		ValueInputOption(inputRaw).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	metrics.ObserveBackendCall(op, start, err)
	return wrapError(op, table, err)
}

func (c *Client) WriteRow(ctx context.Context, table string, row int, values []any) error {
	const op = "write_row"
	if err := c.prepare(ctx, op, table); err != nil {
		return err
	}

	last := ColumnName(max(len(values), 1) - 1)
	ref := fmt.Sprintf("%s!A%d:%s%d", quoteTable(table), row, last, row)
	vr := &sheets.ValueRange{Values: [][]any{values}}

	start := time.Now()
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, ref, vr).
		ValueInputOption(inputRaw).
		Context(ctx).
		Do()
	metrics.ObserveBackendCall(op, start, err)
	return wrapError(op, table, err)
}

func (c *Client) getValues(ctx context.Context, op, table, ref, render, major string) (*sheets.ValueRange, error) {
	if err := c.prepare(ctx, op, table); err != nil {
		return nil, err
	}

	a1 := quoteTable(table)
	if ref != "" {
		a1 += "!" + ref
	}

	call := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, a1).
		ValueRenderOption(render).
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx)
	if major != "" {
		call = call.MajorDimension(major)
	}

	start := time.Now()
	resp, err := call.Do()
	metrics.ObserveBackendCall(op, start, err)
	if err != nil {
		return nil, wrapError(op, table, err)
	}
	return resp, nil
}

// prepare waits for the rate limiter and makes sure the table exists.
func (c *Client) prepare(ctx context.Context, op, table string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Op: op, Table: table, Err: err}
	}

	if err := c.resolve(ctx, table); err != nil {
		return err
	}
	return nil
}

func (c *Client) resolve(ctx context.Context, table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tabs == nil {
		start := time.Now()
		ss, err := c.svc.Spreadsheets.
			Get(c.spreadsheetID).
			Fields("sheets.properties.title").
			Context(ctx).
			Do()
		metrics.ObserveBackendCall("resolve", start, err)
		if err != nil {
			return wrapError("resolve", table, err)
		}

		tabs := make(map[string]struct{}, len(ss.Sheets))
		for _, sh := range ss.Sheets {
			if sh.Properties != nil {
				tabs[sh.Properties.Title] = struct{}{}
			}
		}
		c.tabs = tabs
	}

	if _, ok := c.tabs[table]; !ok {
		return &Error{Op: "resolve", Table: table, Err: ErrTableNotFound}
	}
	return nil
}

func quoteTable(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}
