package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/varghesereji/VOPlanner/internal/coord"
	"github.com/varghesereji/VOPlanner/internal/metrics"
)

const (
	DefaultBaseURL = "https://simbad.cds.unistra.fr/simbad/sim-tap/sync"
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes bounds a single-row TAP response.
	maxBodyBytes = 1 << 20
)

// Config holds SIMBAD client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Simbad resolves names through the SIMBAD TAP synchronous endpoint.
type Simbad struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSimbad creates a SIMBAD client. Zero config fields take defaults.
func NewSimbad(cfg Config, logger *slog.Logger) *Simbad {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Simbad{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured endpoint.
func (s *Simbad) BaseURL() string {
	return s.baseURL
}

// tapResponse is the subset of the TAP JSON output we read. Null cells
// (masked values) decode to nil.
type tapResponse struct {
	Metadata []struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Data [][]*float64 `json:"data"`
}

// Resolve queries SIMBAD for name. It never returns an error: any failure
// yields an Unresolved result and a warning log.
func (s *Simbad) Resolve(ctx context.Context, name string) Result {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unresolved(name, ReasonNotFound)
	}

	start := time.Now()
	res := s.resolve(ctx, name)
	metrics.RecordLookup(resultLabel(res), time.Since(start))

	if pos, ok := res.Position(); ok {
		s.logger.Info("target resolved",
			"component", "resolver",
			"target", name,
			"ra", coord.FormatRA(pos.RA(), 2),
			"dec", coord.FormatDec(pos.Dec(), 2),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return res
}

func (s *Simbad) resolve(ctx context.Context, name string) Result {
	body, err := s.query(ctx, name)
	if err != nil {
		s.logger.Warn("name resolution query failed", "component", "resolver", "target", name, "error", err)
		return Unresolved(name, ReasonQueryFailed)
	}

	var resp tapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Warn("name resolution response malformed", "component", "resolver", "target", name, "error", err)
		return Unresolved(name, ReasonQueryFailed)
	}

	if len(resp.Data) == 0 {
		s.logger.Warn("name not found", "component", "resolver", "target", name)
		return Unresolved(name, ReasonNotFound)
	}

	raIdx, decIdx := columnIndex(resp, "ra", 0), columnIndex(resp, "dec", 1)
	row := resp.Data[0]
	if raIdx >= len(row) || decIdx >= len(row) {
		s.logger.Warn("name resolution row too short", "component", "resolver", "target", name, "columns", len(row))
		return Unresolved(name, ReasonNotFound)
	}
	if row[raIdx] == nil || row[decIdx] == nil {
		s.logger.Warn("name resolved to masked coordinates", "component", "resolver", "target", name)
		return Unresolved(name, ReasonMasked)
	}

	pos, err := coord.NewPosition(*row[raIdx], *row[decIdx], coord.SourceRemote)
	if err != nil {
		s.logger.Warn("name resolved to invalid coordinates", "component", "resolver", "target", name, "error", err)
		return Unresolved(name, ReasonInvalid)
	}
	return Resolved(name, pos)
}

func (s *Simbad) query(ctx context.Context, name string) ([]byte, error) {
	params := url.Values{}
	params.Set("REQUEST", "doQuery")
	params.Set("LANG", "ADQL")
	params.Set("FORMAT", "json")
	params.Set("QUERY", adqlQuery(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, s.baseURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, errors.New("response exceeds 1 MiB byte limit")
	}
	return body, nil
}

// adqlQuery selects ICRS degrees for an exact identifier. Single quotes are
// doubled per ADQL string-literal rules.
func adqlQuery(name string) string {
	escaped := strings.ReplaceAll(name, "'", "''")
	return "SELECT TOP 1 basic.ra, basic.dec FROM basic " +
		"JOIN ident ON ident.oidref = basic.oid " +
		"WHERE ident.id = '" + escaped + "'"
}

func columnIndex(resp tapResponse, name string, fallback int) int {
	for i, m := range resp.Metadata {
		if strings.EqualFold(m.Name, name) {
			return i
		}
	}
	return fallback
}

func resultLabel(r Result) string {
	if r.OK() {
		return "resolved"
	}
	return string(r.Reason())
}
