package systemd

import (
	"context"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/trly/unitctl/internal/execx"
	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/unit"
)

// Paths names the helper executables.
type Paths struct {
	Systemctl  string
	Journalctl string
	Analyze    string
}

// DefaultPaths resolves the helpers through $PATH.
func DefaultPaths() Paths {
	return Paths{Systemctl: "systemctl", Journalctl: "journalctl", Analyze: "systemd-analyze"}
}

// Systemctl runs the systemd command line tools.
type Systemctl struct {
	runner execx.Runner
	paths  Paths
	logger log.Logger
}

// NewSystemctl creates a Systemctl. Empty entries in paths fall back to DefaultPaths.
func NewSystemctl(runner execx.Runner, paths Paths, logger log.Logger) *Systemctl {
	def := DefaultPaths()
	if paths.Systemctl == "" {
		paths.Systemctl = def.Systemctl
	}
	if paths.Journalctl == "" {
		paths.Journalctl = def.Journalctl
	}
	if paths.Analyze == "" {
		paths.Analyze = def.Analyze
	}
	return &Systemctl{runner: runner, paths: paths, logger: logger}
}

// run returns stdout of a command that must exit zero.
func (s *Systemctl) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	s.logger.Debug("Running command", "command", name, "args", args)
	out, err := s.runner.Output(ctx, name, args...)
	if err != nil {
		return nil, newCommandError(name, args, err)
	}
	return out, nil
}

// probe runs a command whose exit status encodes an answer rather than a
// failure. The output is used as long as the command printed something.
func (s *Systemctl) probe(ctx context.Context, name string, args ...string) ([]byte, error) {
	s.logger.Debug("Running command", "command", name, "args", args)
	out, err := s.runner.Output(ctx, name, args...)
	if err != nil && len(out) == 0 {
		return nil, newCommandError(name, args, err)
	}
	return out, nil
}

func scoped(scope unit.Scope, args ...string) []string {
	return append(scope.UserFlag(), args...)
}

// unitArgs scopes verb and ends option parsing before the names, since
// units such as -.slice start with a dash.
func unitArgs(scope unit.Scope, verb []string, names ...string) []string {
	args := scoped(scope, verb...)
	args = append(args, "--")
	return append(args, names...)
}

// ListUnitFiles runs `systemctl list-unit-files`. When stateFlag is set the
// states are passed with --state; they are always applied locally as well.
func (s *Systemctl) ListUnitFiles(ctx context.Context, scope unit.Scope, states []unit.State, stateFlag bool) ([]UnitFileEntry, error) {
	args := append([]string{"list-unit-files"}, scope.UserFlag()...)
	if stateFlag && len(states) > 0 {
		words := make([]string, len(states))
		for i, st := range states {
			words[i] = st.String()
		}
		args = append(args, "--state", strings.Join(words, ","))
	}
	out, err := s.run(ctx, s.paths.Systemctl, args...)
	if err != nil {
		return nil, err
	}
	return ParseListUnitFiles(string(out), states, s.logger), nil
}

// IsActive runs one `systemctl is-active` for all names and returns the
// answers in argument order.
func (s *Systemctl) IsActive(ctx context.Context, scope unit.Scope, names []string) ([]bool, error) {
	if len(names) == 0 {
		return []bool{}, nil
	}
	out, err := s.probe(ctx, s.paths.Systemctl, unitArgs(scope, []string{"is-active"}, names...)...)
	if err != nil {
		return nil, err
	}
	return ParseIsActive(out, len(names))
}

// Status reports whether `systemctl status` shows the unit as active.
func (s *Systemctl) Status(ctx context.Context, scope unit.Scope, name string) (bool, error) {
	out, err := s.probe(ctx, s.paths.Systemctl, unitArgs(scope, []string{"status"}, name)...)
	if err != nil {
		return false, err
	}
	return ParseStatusActive(string(out)), nil
}

// ListDependencies returns the raw `systemctl list-dependencies` tree.
func (s *Systemctl) ListDependencies(ctx context.Context, scope unit.Scope, name string) (string, error) {
	out, err := s.run(ctx, s.paths.Systemctl, unitArgs(scope, []string{"list-dependencies"}, name)...)
	return string(out), err
}

// Show returns the raw `systemctl show` property listing.
func (s *Systemctl) Show(ctx context.Context, scope unit.Scope, name string) (string, error) {
	args := append([]string{"show", "--no-pager"}, scope.UserFlag()...)
	args = append(args, "--", name)
	out, err := s.run(ctx, s.paths.Systemctl, args...)
	return string(out), err
}

// Cat returns the raw `systemctl cat` output.
func (s *Systemctl) Cat(ctx context.Context, scope unit.Scope, name string) (string, error) {
	out, err := s.run(ctx, s.paths.Systemctl, unitArgs(scope, []string{"cat"}, name)...)
	return string(out), err
}

// Journal returns this boot's journal for the unit, newest entry first.
func (s *Systemctl) Journal(ctx context.Context, scope unit.Scope, name string) (string, error) {
	out, err := s.run(ctx, s.paths.Journalctl, scoped(scope, "-b", "-r", "-u", name)...)
	return string(out), err
}

// Analyze runs a systemd-analyze verb such as blame or time.
func (s *Systemctl) Analyze(ctx context.Context, scope unit.Scope, verb string) (string, error) {
	out, err := s.run(ctx, s.paths.Analyze, scoped(scope, verb)...)
	return string(out), err
}

// Version returns the systemd version reported by `systemctl --version`.
func (s *Systemctl) Version(ctx context.Context) (semver.Version, error) {
	out, err := s.run(ctx, s.paths.Systemctl, "--version")
	if err != nil {
		return semver.Version{}, err
	}
	return ParseVersion(string(out))
}

// ParseVersion extracts the version from output such as
// "systemd 252 (252.22-1~deb12u1)".
func ParseVersion(out string) (semver.Version, error) {
	first, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(first)
	if len(fields) < 2 || fields[0] != "systemd" {
		return semver.Version{}, &unit.ParseError{Input: first, Err: unit.ErrMalformedReply}
	}
	v, err := semver.ParseTolerant(fields[1])
	if err != nil {
		return semver.Version{}, fmt.Errorf("parsing systemd version %q: %w", fields[1], &unit.ParseError{Input: first, Err: unit.ErrMalformedReply})
	}
	return v, nil
}
