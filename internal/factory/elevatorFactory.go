// Package factory is the single place that turns a loaded Config into a
// running dispatch.System, keeping cmd/server from reaching into Config's
// individual fields directly. Grounded on the teacher's internal/factory
// (a dedicated construction boundary between config and the elevator bank),
// generalized from building one named elevator.Elevator at a time to
// building the whole dispatch.System in one call.
package factory

import (
	"log/slog"

	"github.com/dgarridoa/elevator-dispatch/internal/dispatch"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/config"
)

// SystemFactory builds a dispatch.System from configuration. An interface so
// callers (and their tests) can substitute a fake bank without touching real
// sizing logic.
type SystemFactory interface {
	CreateSystem(cfg *config.Config, logger *slog.Logger) *dispatch.System
}

// StandardSystemFactory builds the dispatch.System the process actually runs.
type StandardSystemFactory struct{}

func (f StandardSystemFactory) CreateSystem(cfg *config.Config, logger *slog.Logger) *dispatch.System {
	return dispatch.New(cfg.NElevators, cfg.NFloors, cfg.WaitPeriod, logger)
}
