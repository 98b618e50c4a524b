// Package cache implements the in-process columnar matrix cache: a
// dense, RAM-resident projection of hauls/landings onto the
// aggregation cube's coordinate space, refreshed bucket-by-bucket from
// the primary store and queried via summed-area tables for O(1)
// range-sum answers.
package cache

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kyogre-go/fisheries/internal/adapters/persistence"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
)

// DimensionSizes gives each non-location dimension's cardinality plus
// CatchLocation's, sized once at startup from the reference taxonomies
// (gear groups, species groups, vessel length groups, catch locations,
// month buckets covered).
type DimensionSizes map[matrix.Dimension]int

// GormMatrixCache implements ports.MatrixCache. The in-memory cube is
// the read path; the database is the write path and the source of
// truth a process restart rebuilds the cube from.
type GormMatrixCache struct {
	db    *gorm.DB
	sizes DimensionSizes

	mu    sync.RWMutex
	cubes map[matrix.Source]*matrix.Cube
	rows  map[matrix.Source]map[int][]matrix.Row // source -> bucket -> rows, the in-memory mirror RefreshBucket maintains
}

func NewGormMatrixCache(db *gorm.DB, sizes DimensionSizes) *GormMatrixCache {
	return &GormMatrixCache{
		db:    db,
		sizes: sizes,
		cubes: map[matrix.Source]*matrix.Cube{
			matrix.Hauls:    matrix.NewCube(matrix.Hauls, sizes),
			matrix.Landings: matrix.NewCube(matrix.Landings, sizes),
		},
		rows: map[matrix.Source]map[int][]matrix.Row{
			matrix.Hauls:    {},
			matrix.Landings: {},
		},
	}
}

func (c *GormMatrixCache) Watermark(ctx context.Context, source matrix.Source) (matrix.Watermark, error) {
	var model persistence.WatermarkModel
	result := c.db.WithContext(ctx).Where("source = ?", int(source)).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return matrix.Watermark{Source: source}, nil
		}
		return matrix.Watermark{}, fmt.Errorf("failed to load watermark for source %s: %w", source, result.Error)
	}
	return matrix.Watermark{Source: source, Version: model.Version}, nil
}

func (c *GormMatrixCache) PendingVersions(ctx context.Context, source matrix.Source, since matrix.Watermark) ([]matrix.DataVersion, error) {
	var models []persistence.DataVersionModel
	result := c.db.WithContext(ctx).
		Where("source = ? AND version > ?", int(source), since.Version).
		Order("version ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load pending data versions for source %s: %w", source, result.Error)
	}

	out := make([]matrix.DataVersion, len(models))
	for i, m := range models {
		out[i] = matrix.DataVersion{Source: matrix.Source(m.Source), Version: m.Version, MonthBucket: m.MonthBucket}
	}
	return out, nil
}

// RefreshBucket reloads bucket and every later bucket's fact rows from
// the persisted snapshot table into the in-memory cube, replacing
// whatever those buckets previously held. It must cover everything at
// or after bucket, not just bucket itself: PlanRefresh advances the
// watermark to the highest pending version across all buckets, so any
// later bucket left un-reloaded here would have its pending update
// marked seen without ever being folded into the cube. The snapshot
// table itself is written by MaterializeRows (called from the matrix
// materializer) — this method never touches hauls/landings tables
// directly, only the pre-projected rows.
func (c *GormMatrixCache) RefreshBucket(ctx context.Context, source matrix.Source, bucket int) error {
	var models []persistence.MatrixCacheRowModel
	result := c.db.WithContext(ctx).
		Where("source = ? AND matrix_month_bucket >= ?", int(source), bucket).
		Find(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to load matrix cache rows for source %s from bucket %d: %w", source, bucket, result.Error)
	}

	byBucket := map[int][]matrix.Row{bucket: {}}
	for _, m := range models {
		vesselId := int64(0)
		if m.VesselID != nil {
			vesselId = *m.VesselID
		}
		byBucket[m.MonthBucket] = append(byBucket[m.MonthBucket], matrix.Row{
			VesselId:          vesselId,
			MonthBucket:       m.MonthBucket,
			GearGroup:         m.GearGroup,
			SpeciesGroup:      m.SpeciesGroup,
			VesselLengthGroup: m.VesselLengthGroup,
			CatchLocation:     m.CatchLocation,
			LivingWeight:      m.LivingWeight,
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for b := range c.rows[source] {
		if b >= bucket {
			delete(c.rows[source], b)
		}
	}
	for b, rows := range byBucket {
		c.rows[source][b] = rows
	}
	c.rebuildCubeLocked(source)
	return nil
}

// rebuildCubeLocked flattens every bucket's rows back into the source's
// cube. Called with mu held.
func (c *GormMatrixCache) rebuildCubeLocked(source matrix.Source) {
	cube := matrix.NewCube(source, c.sizes)
	for _, rows := range c.rows[source] {
		cube.Ingest(rows)
	}
	c.cubes[source] = cube
}

// MaterializeRows replaces one (source, bucket)'s pre-projected fact
// rows in the primary store's snapshot table and bumps data_version so
// the refresher picks the bucket up on its next cycle. This is the
// write side of the haul-distribution pipeline's output, not part
// of ports.MatrixCache — only the materializer calls it directly.
func (c *GormMatrixCache) MaterializeRows(ctx context.Context, source matrix.Source, bucket int, rows []matrix.Row) error {
	models := make([]persistence.MatrixCacheRowModel, len(rows))
	for i, r := range rows {
		m := persistence.MatrixCacheRowModel{
			Source:            int(source),
			MonthBucket:       bucket,
			CatchLocation:     r.CatchLocation,
			GearGroup:         r.GearGroup,
			SpeciesGroup:      r.SpeciesGroup,
			VesselLengthGroup: r.VesselLengthGroup,
			LivingWeight:      r.LivingWeight,
		}
		if r.VesselId != 0 {
			vesselId := r.VesselId
			m.VesselID = &vesselId
		}
		models[i] = m
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ? AND matrix_month_bucket = ?", int(source), bucket).
			Delete(&persistence.MatrixCacheRowModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear matrix cache rows for source %s bucket %d: %w", source, bucket, err)
		}
		if len(models) > 0 {
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("failed to insert matrix cache rows for source %s bucket %d: %w", source, bucket, err)
			}
		}

		var maxVersion int64
		if err := tx.Model(&persistence.DataVersionModel{}).Where("source = ?", int(source)).
			Select("COALESCE(MAX(version), 0)").Scan(&maxVersion).Error; err != nil {
			return fmt.Errorf("failed to read current data version for source %s: %w", source, err)
		}
		dv := persistence.DataVersionModel{Source: int(source), Version: maxVersion + 1, MonthBucket: bucket}
		if err := tx.Create(&dv).Error; err != nil {
			return fmt.Errorf("failed to record data version for source %s bucket %d: %w", source, bucket, err)
		}
		return nil
	})
}

func (c *GormMatrixCache) AdvanceWatermark(ctx context.Context, wm matrix.Watermark) error {
	model := persistence.WatermarkModel{Source: int(wm.Source), Version: wm.Version}
	result := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{"version"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to advance watermark for source %s: %w", wm.Source, result.Error)
	}
	return nil
}

func (c *GormMatrixCache) Query(ctx context.Context, source matrix.Source, features matrix.Features) (map[matrix.Dimension]*matrix.Matrix, error) {
	c.mu.RLock()
	cube := c.cubes[source]
	c.mu.RUnlock()
	if cube == nil {
		return nil, fmt.Errorf("matrix cache: no cube loaded for source %s", source)
	}
	return cube.Query(features), nil
}
