// Package ports declares the storage/collaborator interfaces the
// application layer depends on, implemented by internal/adapters.
// Raw ingestion connectors, the exact SQL schema, and the outward
// HTTP/gRPC API surface are out of scope here — only these Go
// interfaces constitute the contract this core exposes to them.
package ports

import (
	"context"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// VesselRepository resolves vessel identities and hull parameters.
type VesselRepository interface {
	ListWithPendingEvents(ctx context.Context) ([]vessel.Id, error)
	Get(ctx context.Context, id vessel.Id) (vessel.Vessel, error)
}

// EventRepository is the append-only event store.
type EventRepository interface {
	ListByVessel(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) ([]event.Event, error)
	Insert(ctx context.Context, events []event.Event) (inserted, deduped int, err error)
}

// TripRepository persists the trip set an assembler run produces,
// applying it atomically within one transaction keyed by vessel +
// assembler.
type TripRepository interface {
	ListByVessel(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) ([]trip.Trip, error)
	Apply(ctx context.Context, set trip.TripSet) ([]trip.Trip, error)
	Update(ctx context.Context, update trip.TripUpdate) error
	AppendLogEntry(ctx context.Context, entry trip.LogEntry) error
	QueueReset(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) error
}

// PositionRepository reads a vessel's fused AIS/VMS track.
type PositionRepository interface {
	ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]position.Position, error)
}

// HaulRepository reads/writes hauls and their catch-location
// allocations.
type HaulRepository interface {
	ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]haul.Haul, error)
}

// LandingRepository reads landings for a vessel.
type LandingRepository interface {
	ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]landing.Landing, error)
}

// MatrixCache is the primary-store-backed columnar cache the refresh
// orchestrator and query façade consume.
type MatrixCache interface {
	Watermark(ctx context.Context, source matrix.Source) (matrix.Watermark, error)
	PendingVersions(ctx context.Context, source matrix.Source, since matrix.Watermark) ([]matrix.DataVersion, error)
	RefreshBucket(ctx context.Context, source matrix.Source, bucket int) error
	AdvanceWatermark(ctx context.Context, wm matrix.Watermark) error
	Query(ctx context.Context, source matrix.Source, features matrix.Features) (map[matrix.Dimension]*matrix.Matrix, error)
}
