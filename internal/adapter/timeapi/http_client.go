package timeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"timesheet-dashboard/internal/adapter/allocation"
	"timesheet-dashboard/internal/domain"
)

const (
	DefaultBaseURL = "https://api.dummy.in-lotion.de"
	DefaultPath    = "/api/time-changes"

	maxBodyBytes = 32 << 20
)

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("time api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client implements ports.EntrySource against the time-changes HTTP API.
type Client struct {
	baseURL string
	path    string
	token   string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL, path, token string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if path == "" {
		path = DefaultPath
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		path:    path,
		token:   token,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListTimeEntries fetches the full batch of time changes.
// GET {base}/api/time-changes returns either a bare array or {"data": [...], "count": n}.
func (c *Client) ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("time api: base url: %w", err)
	}
	u = u.JoinPath(c.path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("time api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("time api: read body: %w", err)
	}
	out, err := DecodeEntries(body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("time api response decoded",
		slog.String("url", u.String()),
		slog.Int("count", len(out)),
		slog.Duration("dur", time.Since(start)),
	)
	return out, nil
}

// DecodeEntries maps a time-changes payload to domain entries.
// An element that is not a JSON object, or whose fields have the wrong
// types, fails the whole batch with a *domain.EntryError.
func DecodeEntries(body []byte) ([]domain.TimeEntry, error) {
	items, err := splitPayload(body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(items))
	for i, item := range items {
		if first(item) != '{' {
			return nil, &domain.EntryError{Index: i, Reason: "not an object"}
		}
		var r rawTimeEntry
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, &domain.EntryError{Index: i, Reason: err.Error()}
		}
		out = append(out, r.toDomain())
	}
	return out, nil
}

func splitPayload(body []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	switch first(body) {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("time api: decode list: %w", err)
		}
	case '{':
		var env rawEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("time api: decode envelope: %w", err)
		}
		if env.Data == nil {
			return nil, errors.New("time api: envelope without data")
		}
		items = env.Data
	default:
		return nil, errors.New("time api: payload is neither a list nor an object")
	}
	return items, nil
}

func first(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

type rawEnvelope struct {
	Data  []json.RawMessage `json:"data"`
	Count *int              `json:"count"`
}

// rawTimeEntry mirrors the JSON of the time-changes API. Older payloads use
// startTime/endTime, workTime and pauseTime instead of the current names.
type rawTimeEntry struct {
	ID                  json.RawMessage `json:"id"`
	Start               string          `json:"start"`
	StartTime           string          `json:"startTime"`
	End                 string          `json:"end"`
	EndTime             string          `json:"endTime"`
	WorkDuration        *rawDuration    `json:"workDuration"`
	WorkTime            *rawDuration    `json:"workTime"`
	BreakDuration       *rawDuration    `json:"breakDuration"`
	PauseTime           *rawDuration    `json:"pauseTime"`
	ProjectAllocation   allocation.List `json:"projectAllocation"`
	WorkplaceAllocation allocation.List `json:"workplaceAllocation"`
}

// rawDuration accepts any JSON number. Fractional parts are folded into whole
// minutes.
type rawDuration struct {
	Hours   *float64 `json:"hours"`
	Minutes *float64 `json:"minutes"`
}

func (d *rawDuration) toDomain() *domain.Duration {
	if whole(d.Hours) && whole(d.Minutes) {
		return &domain.Duration{Hours: toInt(d.Hours), Minutes: toInt(d.Minutes)}
	}
	total := int(math.Round(value(d.Hours)*60 + value(d.Minutes)))
	return domain.NewDuration(total/60, total%60)
}

func whole(v *float64) bool { return v == nil || *v == math.Trunc(*v) }

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func toInt(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func (r rawTimeEntry) toDomain() domain.TimeEntry {
	return domain.TimeEntry{
		ID:                  idString(r.ID),
		Start:               firstNonEmpty(r.Start, r.StartTime),
		End:                 firstNonEmpty(r.End, r.EndTime),
		WorkDuration:        pickDuration(r.WorkDuration, r.WorkTime),
		BreakDuration:       pickDuration(r.BreakDuration, r.PauseTime),
		ProjectAllocation:   []domain.Allocation(r.ProjectAllocation),
		WorkplaceAllocation: []domain.Allocation(r.WorkplaceAllocation),
	}
}

func pickDuration(primary, legacy *rawDuration) *domain.Duration {
	d := primary
	if d == nil {
		d = legacy
	}
	if d == nil {
		return nil
	}
	return d.toDomain()
}

// idString accepts string and numeric ids; null or missing yields "".
func idString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
