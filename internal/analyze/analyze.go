// Package analyze reads boot performance figures from systemd-analyze.
package analyze

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/unit"
)

// NotAvailable stands in for a boot phase systemd-analyze did not report.
const NotAvailable = "N/A"

// Blame is the startup time of one unit.
type Blame struct {
	Unit string        `json:"unit" yaml:"unit"`
	Time time.Duration `json:"time" yaml:"time"`
}

// Millis returns Time in whole milliseconds.
func (b Blame) Millis() int64 {
	return b.Time.Milliseconds()
}

// Times holds the boot phase durations as printed by systemd-analyze time.
type Times struct {
	Kernel    string `json:"kernel" yaml:"kernel"`
	Userspace string `json:"userspace" yaml:"userspace"`
	Total     string `json:"total" yaml:"total"`
}

// Runner is the part of systemd.Systemctl the analyzer needs.
type Runner interface {
	Analyze(ctx context.Context, scope unit.Scope, verb string) (string, error)
}

// Analyzer runs systemd-analyze.
type Analyzer struct {
	runner  Runner
	timeout time.Duration
	logger  log.Logger
}

// New creates an Analyzer. A zero timeout leaves the caller's context alone.
func New(runner Runner, timeout time.Duration, logger log.Logger) *Analyzer {
	return &Analyzer{runner: runner, timeout: timeout, logger: logger}
}

func (a *Analyzer) run(ctx context.Context, scope unit.Scope, verb string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.runner.Analyze(ctx, scope, verb)
}

// Blame returns per-unit startup times, fastest first.
func (a *Analyzer) Blame(ctx context.Context, scope unit.Scope) ([]Blame, error) {
	out, err := a.run(ctx, scope, "blame")
	if err != nil {
		return nil, err
	}
	return ParseBlame(out)
}

// Time returns the boot phase durations. On failure every phase is N/A and
// the error is returned alongside.
func (a *Analyzer) Time(ctx context.Context, scope unit.Scope) (Times, error) {
	out, err := a.run(ctx, scope, "time")
	if err != nil {
		a.logger.Warn("systemd-analyze time failed", "scope", scope, "error", err)
		return Times{Kernel: NotAvailable, Userspace: NotAvailable, Total: NotAvailable}, err
	}
	return ParseTimes(out), nil
}

var _ Runner = (*systemd.Systemctl)(nil)

// ParseBlame decodes systemd-analyze blame output. The tool lists the
// slowest unit first; the result is reversed so the fastest comes first.
func ParseBlame(out string) ([]Blame, error) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) == 1 && strings.TrimSpace(lines[0]) == "" {
		return []Blame{}, nil
	}

	blames := make([]Blame, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		b, err := parseBlameLine(lines[i])
		if err != nil {
			return nil, err
		}
		blames = append(blames, b)
	}
	return blames, nil
}

func parseBlameLine(line string) (Blame, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Blame{}, &unit.ParseError{Input: line, Err: unit.ErrMalformedReply}
	}
	var total time.Duration
	for _, f := range fields[:len(fields)-1] {
		total += parseSpan(f)
	}
	return Blame{Unit: fields[len(fields)-1], Time: total}, nil
}

// parseSpan converts one component such as 3min, 38.514s or 1989ms.
// Unknown components count as zero.
func parseSpan(s string) time.Duration {
	switch {
	case strings.HasSuffix(s, "ms"):
		n, _ := strconv.ParseUint(strings.TrimSuffix(s, "ms"), 10, 32)
		return time.Duration(n) * time.Millisecond
	case strings.HasSuffix(s, "us"), strings.HasSuffix(s, "µs"):
		return 0
	case strings.HasSuffix(s, "min"):
		n, _ := strconv.ParseUint(strings.TrimSuffix(s, "min"), 10, 32)
		return time.Duration(n) * time.Minute
	case strings.HasSuffix(s, "s"):
		f, _ := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 32)
		return time.Duration(float32(f)*1000) * time.Millisecond
	case strings.HasSuffix(s, "h"):
		n, _ := strconv.ParseUint(strings.TrimSuffix(s, "h"), 10, 32)
		return time.Duration(n) * time.Hour
	}
	return 0
}

// ParseTimes decodes systemd-analyze time output such as
// "Startup finished in 7.621s (kernel) + 23.949s (userspace) = 31.571s".
func ParseTimes(out string) Times {
	t := Times{Kernel: NotAvailable, Userspace: NotAvailable, Total: NotAvailable}
	first, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(first)
	for i, f := range fields {
		switch {
		case f == "(kernel)" && i > 0:
			t.Kernel = fields[i-1]
		case f == "(userspace)" && i > 0:
			t.Userspace = fields[i-1]
		case f == "=" && i+1 < len(fields):
			t.Total = fields[i+1]
		}
	}
	return t
}

// String renders the times on one line.
func (t Times) String() string {
	return fmt.Sprintf("kernel %s, userspace %s, total %s", t.Kernel, t.Userspace, t.Total)
}
