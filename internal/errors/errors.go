// Package errors defines the error taxonomy used by balkit.
//
// No error raised while installing is fatal: configuration problems are
// reported and the run stops without side effects, subprocess and I/O
// failures are downgraded to warnings, missing inputs are skipped, and
// detected incompatibilities trigger remediation. Collector gathers the
// downgraded errors so they can be summarized at the end of a run.
package errors

import (
	"sync"
	"time"
)

// Severity represents how a collected error was treated
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is an error that was downgraded and recorded instead of returned
type Notice struct {
	Err       error
	Severity  Severity
	Phase     string
	Timestamp time.Time
}

// Collector collects downgraded errors
type Collector struct {
	notices []Notice
	mutex   sync.RWMutex
}

// NewCollector creates a new error collector
func NewCollector() *Collector {
	return &Collector{
		notices: make([]Notice, 0),
	}
}

// Add records a notice
func (c *Collector) Add(n Notice) {
	if n.Err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	c.notices = append(c.notices, n)
}

// Warn records err as a warning raised during phase
func (c *Collector) Warn(phase string, err error) {
	c.Add(Notice{Err: err, Severity: SeverityWarning, Phase: phase})
}

// Notices returns a copy of everything collected
func (c *Collector) Notices() []Notice {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]Notice, len(c.notices))
	copy(result, c.notices)
	return result
}

// Errors returns the collected errors in insertion order
func (c *Collector) Errors() []error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]error, 0, len(c.notices))
	for _, n := range c.notices {
		result = append(result, n.Err)
	}
	return result
}

// ByType returns the notices whose error is a KitError of errType
func (c *Collector) ByType(errType ErrorType) []Notice {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	var out []Notice
	for _, n := range c.notices {
		if IsType(n.Err, errType) {
			out = append(out, n)
		}
	}
	return out
}
