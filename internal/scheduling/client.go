// Package scheduling talks to the aggregation and scheduling services that
// produce a timetable's section schedules.
package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/javiermolinar/horario/internal/debuglog"
	"github.com/javiermolinar/horario/internal/timetable"
)

// ErrGenerationFailed is wrapped by every collaborator failure.
var ErrGenerationFailed = errors.New("timetable generation failed")

// DefaultTimeout bounds each collaborator call.
const DefaultTimeout = 2 * time.Minute

// Error describes a failed collaborator call.
type Error struct {
	Op      string // "fetch data" or "schedule"
	Status  int    // HTTP status, 0 on transport failure
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("unknown error")
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrGenerationFailed and the transport cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGenerationFailed, e.Err}
	}
	return []error{ErrGenerationFailed}
}

// Generator produces section schedules for a timetable.
type Generator interface {
	Generate(ctx context.Context, timetableID string) ([]timetable.SectionSchedule, error)
}

// Client calls the aggregation endpoint and then the scheduler.
type Client struct {
	dataURL     string
	scheduleURL string
	http        *http.Client
	log         *debuglog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a debug logger.
func WithLogger(l *debuglog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client. dataURL is the aggregation base URL; the
// timetable id is appended as the last path segment.
func NewClient(dataURL, scheduleURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		dataURL:     strings.TrimRight(dataURL, "/"),
		scheduleURL: scheduleURL,
		http:        &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchData returns the raw aggregation payload for a timetable.
func (c *Client) FetchData(ctx context.Context, timetableID string) (json.RawMessage, error) {
	const op = "fetch data"
	url := c.dataURL + "/" + timetableID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if status != http.StatusOK {
		return nil, &Error{Op: op, Status: status, Message: failureMessage(body)}
	}
	if !json.Valid(body) {
		return nil, &Error{Op: op, Status: status, Message: "aggregation response is not valid JSON"}
	}

	c.log.Event("AGGREGATION_FETCHED", map[string]any{"timetable": timetableID, "bytes": len(body)})
	return json.RawMessage(body), nil
}

type scheduleResponse struct {
	Success     bool                        `json:"success"`
	Sections    []timetable.SectionSchedule `json:"sections"`
	Error       string                      `json:"error"`
	Message     string                      `json:"message"`
	TimeTakenMs *float64                    `json:"timeTakenMs"`
	Iterations  *int                        `json:"iterations"`
}

// Schedule posts the aggregation payload unmodified and returns the generated
// sections.
func (c *Client) Schedule(ctx context.Context, payload json.RawMessage) ([]timetable.SectionSchedule, error) {
	const op = "schedule"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scheduleURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	var resp scheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if status != http.StatusOK {
			return nil, &Error{Op: op, Status: status, Message: failureMessage(body)}
		}
		return nil, &Error{Op: op, Status: status, Message: "invalid scheduler response", Err: err}
	}
	if status != http.StatusOK || !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = "scheduler reported failure"
		}
		return nil, &Error{Op: op, Status: status, Message: msg}
	}

	diag := map[string]any{"sections": len(resp.Sections)}
	if resp.TimeTakenMs != nil {
		diag["time_taken_ms"] = *resp.TimeTakenMs
	}
	if resp.Iterations != nil {
		diag["iterations"] = *resp.Iterations
	}
	c.log.Event("SCHEDULE_GENERATED", diag)
	return resp.Sections, nil
}

// Generate fetches the aggregation payload, schedules it, and fills section
// year and student count from the aggregation records when the scheduler
// leaves them out.
func (c *Client) Generate(ctx context.Context, timetableID string) ([]timetable.SectionSchedule, error) {
	payload, err := c.FetchData(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	sections, err := c.Schedule(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := timetable.CheckSections(sections); err != nil {
		return nil, &Error{Op: "schedule", Message: err.Error(), Err: err}
	}
	return Enrich(sections, payload), nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("COLLABORATOR_FAILED", err, map[string]any{"url": req.URL.String()})
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	c.log.Event("COLLABORATOR_CALL", map[string]any{
		"method":      req.Method,
		"url":         req.URL.String(),
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return body, resp.StatusCode, nil
}

// failureMessage extracts a message from an error payload, falling back to
// the trimmed body text.
func failureMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "" && payload.Error != "":
			return payload.Error + ": " + payload.Message
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return "empty response"
	}
	return text
}
