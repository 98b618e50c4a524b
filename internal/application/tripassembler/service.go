// Package tripassembler orchestrates per-vessel trip assembly: pulling a
// vessel's event timeline, running the ERS/Landings assemblers, and
// applying the resulting TripSet atomically.
package tripassembler

import (
	"context"
	"sync"

	"github.com/alitto/pond"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Metrics exposes the assembler's Prometheus collectors, following the
// one-collector-per-component convention used throughout the adapters.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	ConflictsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fisheries_trip_assembler_runs_total",
			Help: "Trip assembler runs, by assembler kind and outcome.",
		}, []string{"assembler", "outcome"}),
		ConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fisheries_trip_assembler_conflicts_total",
			Help: "Trip assembler conflicts detected, by assembler kind.",
		}, []string{"assembler"}),
	}
	reg.MustRegister(m.RunsTotal, m.ConflictsTotal)
	return m
}

// Service runs the ERS and Landings assemblers for any vessel with
// pending events on a bounded worker pool. A per-vessel mutex allows at
// most one assembly run per vessel at a time, and different vessels
// proceed in parallel up to the pool's capacity. Only assembly takes
// this lock: precision refinement and haul distribution run elsewhere
// and are not serialized by it.
type Service struct {
	vessels ports.VesselRepository
	events  ports.EventRepository
	trips   ports.TripRepository
	ers     *trip.ErsAssembler
	landings *trip.LandingsAssembler
	clock   shared.Clock
	metrics *Metrics
	log     zerolog.Logger

	pool *pond.WorkerPool

	mu      sync.Mutex
	perVessel map[vessel.Id]*sync.Mutex
}

func NewService(
	vessels ports.VesselRepository,
	events ports.EventRepository,
	trips ports.TripRepository,
	ers *trip.ErsAssembler,
	landings *trip.LandingsAssembler,
	clock shared.Clock,
	metrics *Metrics,
	log zerolog.Logger,
	workerPoolSize int,
) *Service {
	if workerPoolSize <= 0 {
		workerPoolSize = 4
	}
	return &Service{
		vessels:   vessels,
		events:    events,
		trips:     trips,
		ers:       ers,
		landings:  landings,
		clock:     clock,
		metrics:   metrics,
		log:       log.With().Str("component", "trip_assembler").Logger(),
		pool:      pond.New(workerPoolSize, workerPoolSize*4),
		perVessel: make(map[vessel.Id]*sync.Mutex),
	}
}

func (s *Service) vesselLock(id vessel.Id) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.perVessel[id]
	if !ok {
		l = &sync.Mutex{}
		s.perVessel[id] = l
	}
	return l
}

// RunAll submits one assembly task per assembler kind (ERS and
// Landings) for each vessel with pending events to the worker pool and
// waits for all of them to finish.
func (s *Service) RunAll(ctx context.Context) error {
	ids, err := s.vessels.ListWithPendingEvents(ctx)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}
	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		for _, kind := range []trip.AssemblerKind{trip.ERS, trip.Landings} {
			kind := kind
			wg.Add(1)
			s.pool.Submit(func() {
				defer wg.Done()
				if err := s.RunVessel(ctx, id, kind); err != nil {
					s.log.Error().Err(err).Int64("vessel_id", int64(id)).Str("assembler", kind.String()).Msg("trip assembly failed")
				}
			})
		}
	}
	wg.Wait()
	return nil
}

// RunVessel runs the assembler of the given kind for one vessel, serialized against
// any other in-flight run for the same vessel.
func (s *Service) RunVessel(ctx context.Context, id vessel.Id, kind trip.AssemblerKind) error {
	lock := s.vesselLock(id)
	lock.Lock()
	defer lock.Unlock()

	prior := s.clock.Now()

	events, err := s.events.ListByVessel(ctx, id, kind)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}
	existing, err := s.trips.ListByVessel(ctx, id, kind)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}

	var set trip.TripSet
	switch kind {
	case trip.ERS:
		set = s.ers.Assemble(id, events, existing)
	case trip.Landings:
		set = s.landings.Assemble(id, events, existing)
	default:
		return shared.NewUnknownEnumError("assembler", kind.String())
	}

	outcome := "steady"
	if set.Conflict != nil {
		outcome = "conflict"
		s.metrics.ConflictsTotal.WithLabelValues(kind.String()).Inc()
	}
	s.metrics.RunsTotal.WithLabelValues(kind.String(), outcome).Inc()

	if _, err := s.trips.Apply(ctx, set); err != nil {
		return shared.NewStorageTransientError(err)
	}

	post := s.clock.Now()
	entry := trip.NewLogEntry(set, &prior, post, len(existing), len(events))
	if err := s.trips.AppendLogEntry(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to append assembler log entry")
	}
	return nil
}

// Shutdown waits for in-flight work to finish and releases the pool.
func (s *Service) Shutdown() {
	s.pool.StopAndWait()
}
