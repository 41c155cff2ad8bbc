package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"indicacoes/cmd/internal/infrastructure/gsheets"
)

const (
	envVarsPrefix = "/indicacoes/prod/"
	ssmRegion     = "sa-east-1"

	BackendGoogle = "google"
	BackendMemory = "memory"
)

type Config struct {
	Port              int
	SheetsBackend     string
	Credentials       gsheets.Credentials
	SpreadsheetID     string
	RequestsPerMinute int
	Retry             gsheets.RetryPolicy
	JWTSecret         string
	NodeID            int64
	S3Bucket          string
	S3Region          string
	SnapshotInterval  time.Duration
}

// LoadEnv fills the process environment: from SSM Parameter Store when
// GO_ENV=production, from .env otherwise. A missing .env is not an error.
func LoadEnv(ctx context.Context) error {
	if os.Getenv("GO_ENV") == "production" {
		return loadProdEnv(ctx)
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func loadProdEnv(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(ssmRegion))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	pages := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	total := 0
	for pages.HasMorePages() {
		out, err := pages.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		if err := exportParameters(out.Parameters); err != nil {
			return err
		}
		total += len(out.Parameters)
	}
	log.Debugf("loaded %d prod environment variables", total)
	return nil
}

func exportParameters(params []types.Parameter) error {
	for _, param := range params {
		key := strings.TrimPrefix(aws.ToString(param.Name), envVarsPrefix)
		if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
			return fmt.Errorf("unable to set environment variable %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment. Every missing or
// malformed variable is reported in the returned error.
func Load() (*Config, error) {
	r := &reader{}

	cfg := &Config{
		Port:              r.int("PORT", 7070),
		SheetsBackend:     r.str("SHEETS_BACKEND", BackendGoogle),
		RequestsPerMinute: r.int("SHEETS_REQUESTS_PER_MINUTE", 60),
		Retry: gsheets.RetryPolicy{
			Base:     r.duration("SHEETS_RETRY_BASE", gsheets.DefaultRetryBase),
			Max:      r.duration("SHEETS_RETRY_MAX", gsheets.DefaultRetryMax),
			Attempts: r.int("SHEETS_RETRY_ATTEMPTS", gsheets.DefaultRetryAttempts),
		},
		JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
		NodeID:           int64(r.int("NODE_ID", 1)),
		S3Bucket:         os.Getenv("S3_BUCKET_NAME"),
		S3Region:         r.str("AWS_S3_REGION", ssmRegion),
		SnapshotInterval: r.duration("SNAPSHOT_INTERVAL", 24*time.Hour),
	}

	switch cfg.SheetsBackend {
	case BackendGoogle:
		cfg.Credentials = gsheets.Credentials{
			ClientEmail: r.required("GOOGLE_CLIENT_EMAIL"),
			PrivateKey:  strings.ReplaceAll(r.required("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
		}
		cfg.SpreadsheetID = r.required("SPREADSHEET_ID")
	case BackendMemory:
	default:
		r.fail("SHEETS_BACKEND", "expected google or memory")
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	return cfg, nil
}

type reader struct {
	errs []error
}

func (r *reader) fail(key, reason string) {
	r.errs = append(r.errs, fmt.Errorf("%s: %s", key, reason))
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) required(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		r.fail(key, "required")
	}
	return v
}

func (r *reader) int(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, "expected an integer")
		return def
	}
	return v
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, "expected a duration such as 1s or 24h")
		return def
	}
	return v
}
