package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// ClickHouseFeatures appends extracted-feature facts to ClickHouse.
// Feature rows are write-once and never updated, which is what the
// MergeTree append model is for.
type ClickHouseFeatures struct {
	ch     driver.Conn
	logger *zap.SugaredLogger
}

func NewClickHouseFeatures(ch driver.Conn, logger *zap.Logger) *ClickHouseFeatures {
	return &ClickHouseFeatures{ch: ch, logger: logger.Sugar()}
}

const featuresSchema = `
CREATE TABLE IF NOT EXISTS extracted_features (
	entity_id String,
	entity_type LowCardinality(String),
	feature_name LowCardinality(String),
	value Float64,
	created_at DateTime64(3)
) ENGINE = MergeTree
ORDER BY (entity_type, entity_id, feature_name, created_at)
`

// Migrate creates the feature fact table if it does not exist.
func (s *ClickHouseFeatures) Migrate(ctx context.Context) error {
	if err := s.ch.Exec(ctx, featuresSchema); err != nil {
		return fmt.Errorf("apply clickhouse schema: %w", err)
	}
	return nil
}

// InsertFeatures appends a batch of feature rows. Rows with a zero
// CreatedAt are stamped with the insert time.
func (s *ClickHouseFeatures) InsertFeatures(ctx context.Context, features []models.ExtractedFeature) error {
	if len(features) == 0 {
		return nil
	}

	batch, err := s.ch.PrepareBatch(ctx, `
		INSERT INTO extracted_features (entity_id, entity_type, feature_name, value, created_at)`)
	if err != nil {
		return fmt.Errorf("prepare feature batch: %w", err)
	}

	now := time.Now().UTC()
	for _, f := range features {
		createdAt := f.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if err := batch.Append(f.EntityID, f.EntityType, f.FeatureName, f.Value, createdAt); err != nil {
			return fmt.Errorf("append feature %s/%s: %w", f.EntityID, f.FeatureName, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send feature batch: %w", err)
	}
	s.logger.Debugw("Inserted feature batch", "count", len(features))
	return nil
}
