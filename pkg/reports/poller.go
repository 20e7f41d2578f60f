package reports

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Poller states. The flow is strictly
// idle -> submitting -> polling -> {ready | timed_out | submit_failed};
// terminal states never transition back.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePolling
	StateReady
	StateTimedOut
	StateSubmitFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	case StateReady:
		return "ready"
	case StateTimedOut:
		return "timed_out"
	case StateSubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// Defaults for the two report flows.
const (
	DefaultInterval      = 5 * time.Second
	ECCNMaxAttempts      = 120
	LicensingMaxAttempts = 30
)

// ErrTimedOut is returned when the attempt ceiling is exceeded before
// the report exists. Generation is not retried automatically.
var ErrTimedOut = errors.New("report generation timed out")

// Logger is the minimal logging surface the poller needs.
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Poller drives one asynchronous report generation: submit once, then
// ask "is it ready yet" on a fixed interval until it exists or the
// attempt ceiling is reached. Exactly one status check goes out per
// tick; a transient check failure counts as "not ready yet".
type Poller struct {
	// Submit issues the generation request and returns the report id
	// the status checks are keyed by.
	Submit func(ctx context.Context) (reportID string, err error)
	// Check reports whether the report exists, returning its body when
	// it does.
	Check func(ctx context.Context, reportID string) (body string, exists bool, err error)

	Interval    time.Duration
	MaxAttempts int
	Log         Logger

	state State
}

// State returns the poller's current state.
func (p *Poller) State() State { return p.state }

// Run executes the whole flow synchronously and returns the report body
// once it exists. Cancelling the context stops the poll between ticks.
func (p *Poller) Run(ctx context.Context) (string, error) {
	log := p.Log
	if log == nil {
		log = nopLogger{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = LicensingMaxAttempts
	}

	p.state = StateSubmitting
	reportID, err := p.Submit(ctx)
	if err != nil {
		p.state = StateSubmitFailed
		return "", fmt.Errorf("report submission failed: %w", err)
	}

	p.state = StatePolling
	log.Debugf("Submitted report %s, polling every %s (up to %d attempts)", reportID, interval, maxAttempts)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		body, exists, err := p.Check(ctx, reportID)
		if err != nil {
			// A failed status check is not a failed report.
			log.Warnf("Report status check %d/%d failed: %v", attempt, maxAttempts, err)
			continue
		}
		if exists {
			p.state = StateReady
			return body, nil
		}
		log.Debugf("Report %s not ready (attempt %d/%d)", reportID, attempt, maxAttempts)
	}

	p.state = StateTimedOut
	return "", ErrTimedOut
}
