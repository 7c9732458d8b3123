package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/observability"
	"github.com/spherical-ai/hoidap/internal/reference"
)

// ErrAccessDenied means the spreadsheet is not shared for export.
var ErrAccessDenied = errors.New("spreadsheet access denied")

// SheetsSource reads worksheets of a shared Google spreadsheet through its
// CSV export endpoint. The worksheet title is the table name.
type SheetsSource struct {
	client        *http.Client
	baseURL       string
	spreadsheetID string
	retry         RetryConfig
	logger        *observability.Logger
}

// NewSheetsSource creates a spreadsheet source. Transient failures are
// retried with exponential backoff.
func NewSheetsSource(cfg config.SheetsConfig, logger *observability.Logger) *SheetsSource {
	if logger == nil {
		logger = observability.Nop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://docs.google.com"
	}
	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	if cfg.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.InitialBackoff
	}
	return &SheetsSource{
		client:        &http.Client{Timeout: cfg.Timeout},
		baseURL:       base,
		spreadsheetID: cfg.SpreadsheetID,
		retry:         retry,
		logger:        logger.WithOperation("sheets_source"),
	}
}

// FetchTable downloads one worksheet as CSV.
func (s *SheetsSource) FetchTable(ctx context.Context, name string) (*reference.Table, error) {
	resp, err := doWithRetry(ctx, s.logger.WithStr("table", name), s.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.exportURL(name), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return s.client.Do(req)
	})
	if err != nil {
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: reference.ErrTableNotFound}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: ErrAccessDenied}
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &reference.SourceError{
			Table: name,
			Op:    "fetch",
			Err:   fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	// A private spreadsheet redirects to a sign-in page served as HTML.
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: ErrAccessDenied}
	}

	return parseCSV(name, resp.Body)
}

// Close releases idle connections.
func (s *SheetsSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// String identifies the source in logs.
func (s *SheetsSource) String() string {
	return "sheets(" + s.spreadsheetID + ")"
}

func (s *SheetsSource) exportURL(sheet string) string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", sheet)
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", s.baseURL, url.PathEscape(s.spreadsheetID), q.Encode())
}
