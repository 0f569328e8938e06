package catalog

import (
	"context"
	"sync"

	"github.com/blang/semver/v4"

	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/unit"
)

// Source lists the unit files of one scope.
type Source interface {
	ListUnitFiles(ctx context.Context, scope unit.Scope) ([]systemd.UnitFileEntry, error)
}

// ActiveQuerier answers whether each named unit is active, in argument order.
type ActiveQuerier interface {
	IsActive(ctx context.Context, scope unit.Scope, names []string) ([]bool, error)
}

// DBusSource lists unit files through the manager's ListUnitFiles method.
type DBusSource struct {
	factory systemd.ConnectionFactory
	logger  log.Logger
}

// NewDBusSource creates a DBusSource.
func NewDBusSource(factory systemd.ConnectionFactory, logger log.Logger) *DBusSource {
	return &DBusSource{factory: factory, logger: logger}
}

// ListUnitFiles implements Source.
func (s *DBusSource) ListUnitFiles(ctx context.Context, scope unit.Scope) ([]systemd.UnitFileEntry, error) {
	conn, err := s.factory.NewConnection(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	files, err := conn.ListUnitFiles(ctx)
	if err != nil {
		return nil, systemd.NewError("list", "", scope, err)
	}
	s.logger.Debug("Listed unit files", "scope", scope, "count", len(files))
	return systemd.FromUnitFiles(files)
}

// listedStates are the states requested from systemctl list-unit-files.
var listedStates = []unit.State{unit.StateEnabled, unit.StateDisabled, unit.StateMasked}

// stateFlagVersion is the first systemd release whose list-unit-files
// accepts --state.
var stateFlagVersion = semver.MustParse("216.0.0")

// SystemctlSource lists unit files by running systemctl list-unit-files.
type SystemctlSource struct {
	systemctl *systemd.Systemctl
	logger    log.Logger

	once      sync.Once
	stateFlag bool
}

// NewSystemctlSource creates a SystemctlSource.
func NewSystemctlSource(systemctl *systemd.Systemctl, logger log.Logger) *SystemctlSource {
	return &SystemctlSource{systemctl: systemctl, logger: logger}
}

// ListUnitFiles implements Source.
func (s *SystemctlSource) ListUnitFiles(ctx context.Context, scope unit.Scope) ([]systemd.UnitFileEntry, error) {
	s.once.Do(func() {
		v, err := s.systemctl.Version(ctx)
		if err != nil {
			s.logger.Warn("Could not determine systemd version, filtering states locally", "error", err)
			return
		}
		s.stateFlag = v.GTE(stateFlagVersion)
		s.logger.Debug("Detected systemd version", "version", v.String(), "stateFlag", s.stateFlag)
	})
	return s.systemctl.ListUnitFiles(ctx, scope, listedStates, s.stateFlag)
}
