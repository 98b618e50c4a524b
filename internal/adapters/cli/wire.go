package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kyogre-go/fisheries/internal/adapters/cache"
	"github.com/kyogre-go/fisheries/internal/adapters/persistence"
	"github.com/kyogre-go/fisheries/internal/application/enrichment"
	"github.com/kyogre-go/fisheries/internal/application/hauldistributor"
	"github.com/kyogre-go/fisheries/internal/application/matrixengine"
	"github.com/kyogre-go/fisheries/internal/application/matrixmaterializer"
	"github.com/kyogre-go/fisheries/internal/application/precision"
	"github.com/kyogre-go/fisheries/internal/application/query"
	"github.com/kyogre-go/fisheries/internal/application/tripassembler"
	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/fuel"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/infrastructure/config"
	"github.com/kyogre-go/fisheries/internal/infrastructure/database"
	"github.com/kyogre-go/fisheries/internal/infrastructure/logging"
)

var configPath string

// app bundles the wiring every subcommand needs: configuration, an open
// database connection, the repositories and the logger.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	log       zerolog.Logger
	vessels   ports.VesselRepository
	events    *persistence.GormEventRepository
	trips     ports.TripRepository
	hauls     *persistence.GormHaulRepository
	landings  *persistence.GormLandingRepository
	positions      *persistence.GormPositionRepository
	cache          *cache.GormMatrixCache
	locations      *catchlocation.Index
	deliveryPoints map[string]catchlocation.Point
	ports          map[string]position.PortReference
	sizes          cache.DimensionSizes
	registry       *prometheus.Registry
}

func newApp() (*app, error) {
	cfg := config.MustLoadConfig(configPath)

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sizes := cache.DimensionSizes{
		matrix.MonthBucket:       600,
		matrix.GearGroup:         20,
		matrix.SpeciesGroup:      80,
		matrix.VesselLengthGroup: 5,
		matrix.CatchLocation:     400,
	}

	locations, err := persistence.LoadCatchLocationIndex(cfg.Locations.PolygonsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catch-location reference data: %w", err)
	}

	deliveryPoints, err := persistence.LoadDeliveryPoints(cfg.Locations.DeliveryPointsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery-point reference data: %w", err)
	}

	portRefs, err := persistence.LoadPorts(cfg.Locations.PortsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load port reference data: %w", err)
	}

	return &app{
		cfg:            cfg,
		db:             db,
		log:            log,
		vessels:        persistence.NewGormVesselRepository(db),
		events:         persistence.NewGormEventRepository(db),
		trips:          persistence.NewGormTripRepository(db),
		hauls:          persistence.NewGormHaulRepository(db),
		landings:       persistence.NewGormLandingRepository(db),
		positions:      persistence.NewGormPositionRepository(db),
		cache:          cache.NewGormMatrixCache(db, sizes),
		locations:      locations,
		deliveryPoints: deliveryPoints,
		ports:          portRefs,
		sizes:          sizes,
		registry:       prometheus.NewRegistry(),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close database: %v\n", err)
	}
}

func (a *app) tripAssembler() *tripassembler.Service {
	ers := trip.NewErsAssembler(a.cfg.Trips.LandingCoverageExtension)
	landings := trip.NewLandingsAssembler()
	metrics := tripassembler.NewMetrics(a.registry)
	clock := shared.NewRealClock()
	return tripassembler.NewService(a.vessels, a.events, a.trips, ers, landings, clock, metrics, a.log, a.cfg.Workers.PoolSize)
}

func (a *app) matrixRefresher() *matrixengine.Refresher {
	metrics := matrixengine.NewMetrics(a.registry)
	return matrixengine.NewRefresher(a.cache, metrics, a.log, a.cfg.Refresh.Interval)
}

func (a *app) matrixMaterializer() *matrixmaterializer.Service {
	distributor := hauldistributor.NewAisVms(a.locations)
	return matrixmaterializer.NewService(a.vessels, a.hauls, a.landings, a.positions, a.cache, distributor, a.sizes, a.log)
}

func (a *app) precisionService() *precision.Service {
	return precision.NewService(a.positions, a.hauls, a.landings, precision.Config{
		Strategies:          strategyKinds(a.cfg.Trips.PrecisionStrategies),
		NearshoreBandMeters: a.cfg.Trips.NearshoreBandMeters,
		Slack:               a.cfg.Trips.PrecisionSlack,
		TrackMargin:         a.cfg.Trips.TrackMargin,
		DeliveryPoints:      a.deliveryPoints,
		Ports:               a.ports,
	})
}

// strategyKinds resolves the configured precision-strategy names to
// their StrategyKind, preserving configured order and silently
// skipping names the position package doesn't recognize.
func strategyKinds(names []string) []position.StrategyKind {
	kinds := make([]position.StrategyKind, 0, len(names))
	for _, name := range names {
		switch name {
		case "first_moved_point":
			kinds = append(kinds, position.FirstMovedPoint)
		case "delivery_point":
			kinds = append(kinds, position.DeliveryPoint)
		case "port":
			kinds = append(kinds, position.Port)
		case "dock_point":
			kinds = append(kinds, position.DockPoint)
		case "distance_to_shore":
			kinds = append(kinds, position.DistanceToShoreStrategy)
		}
	}
	return kinds
}

func (a *app) enrichmentService() *enrichment.Service {
	return enrichment.NewService(a.trips, a.positions, a.vessels, a.precisionService(), fuel.NewEstimator(), a.log)
}

func (a *app) queryFacade() *query.Facade {
	return query.NewFacade(a.trips, a.hauls, a.landings, a.positions, a.cache, cacheMissPolicy(a.cfg.Cache.Mode))
}

// cacheMissPolicy resolves the configured cache mode string to its
// CacheMissPolicy, defaulting to MissOnError for unrecognized values so a
// cold/unavailable cache never blocks a query.
func cacheMissPolicy(mode string) matrix.CacheMissPolicy {
	if mode == "ReturnError" {
		return matrix.ReturnError
	}
	return matrix.MissOnError
}
