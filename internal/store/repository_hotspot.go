package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"modelhub/internal/logger"
	"modelhub/models"
)

// hotspotRepository is the SQL-backed implementation of [HotspotRepository].
//
// Every mutation runs in a transaction that also refreshes the parent
// model's updated_at marker; the touch doubling as the parent existence
// check keeps the two writes atomic.
type hotspotRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewHotspotRepository constructs a [HotspotRepository] backed by the
// provided database connection and logger.
func NewHotspotRepository(db *DB, logger *logger.Logger) HotspotRepository {
	logger.Debug().Msg("creating hotspot repository")
	return &hotspotRepository{
		db:     db,
		logger: logger,
	}
}

// CreateHotspot persists a new hotspot and refreshes the parent model's
// updated_at marker in the same transaction.
func (r *hotspotRepository) CreateHotspot(ctx context.Context, hotspot models.Hotspot) (models.Hotspot, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Insert(hotspot.TableName()).
		Columns(hotspotColumns...).
		Values(hotspot.HotspotID, hotspot.ModelID, hotspot.Name, hotspot.Position,
			hotspot.Normal, hotspot.Surface, hotspot.Content, hotspot.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*hotspotRepository.CreateHotspot").Msg("error building query")
		return models.Hotspot{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.inTouchedTx(ctx, hotspot.ModelID, "*hotspotRepository.CreateHotspot", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*hotspotRepository.CreateHotspot").Msg("error inserting hotspot")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		return models.Hotspot{}, err
	}

	return hotspot, nil
}

// ListHotspotsByModelID returns the model's hotspots in insertion order.
// Hotspot IDs are time-ordered, so sorting by ID preserves creation order
// even when two hotspots share a created_at timestamp.
func (r *hotspotRepository) ListHotspotsByModelID(ctx context.Context, modelID string) ([]models.Hotspot, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(hotspotColumns...).
		From(models.Hotspot{}.TableName()).
		Where(squirrel.Eq{"model_id": modelID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*hotspotRepository.ListHotspotsByModelID").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*hotspotRepository.ListHotspotsByModelID").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	found := make([]models.Hotspot, 0)
	for rows.Next() {
		var h models.Hotspot
		err = rows.Scan(&h.HotspotID, &h.ModelID, &h.Name, &h.Position,
			&h.Normal, &h.Surface, &h.Content, &h.CreatedAt)
		if err != nil {
			log.Err(err).Str("func", "*hotspotRepository.ListHotspotsByModelID").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		found = append(found, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// CountHotspotsByModelID returns the number of hotspots under the model.
func (r *hotspotRepository) CountHotspotsByModelID(ctx context.Context, modelID string) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select("COUNT(*)").
		From(models.Hotspot{}.TableName()).
		Where(squirrel.Eq{"model_id": modelID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*hotspotRepository.CountHotspotsByModelID").Msg("error building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*hotspotRepository.CountHotspotsByModelID").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}

// UpdateHotspot applies the partial update to the hotspot identified by
// (modelID, hotspotID) and refreshes the parent model's updated_at marker in
// the same transaction. Zero matched rows yield [ErrHotspotNotFound] and the
// parent is left untouched.
func (r *hotspotRepository) UpdateHotspot(ctx context.Context, modelID, hotspotID string, update models.HotspotUpdate) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateHotspotQuery(r.db.builder, modelID, hotspotID, update)
	if err != nil {
		log.Err(err).Str("func", "*hotspotRepository.UpdateHotspot").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.inTouchedTx(ctx, modelID, "*hotspotRepository.UpdateHotspot", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "*hotspotRepository.UpdateHotspot").Msg("error updating hotspot")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected == 0 {
			return ErrHotspotNotFound
		}
		return nil
	})
}

// DeleteHotspot removes the hotspot identified by (modelID, hotspotID) and
// refreshes the parent model's updated_at marker in the same transaction.
func (r *hotspotRepository) DeleteHotspot(ctx context.Context, modelID, hotspotID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Delete(models.Hotspot{}.TableName()).
		Where(squirrel.Eq{"id": hotspotID, "model_id": modelID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*hotspotRepository.DeleteHotspot").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.inTouchedTx(ctx, modelID, "*hotspotRepository.DeleteHotspot", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "*hotspotRepository.DeleteHotspot").Msg("error deleting hotspot")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected == 0 {
			return ErrHotspotNotFound
		}
		return nil
	})
}

// inTouchedTx runs fn inside a transaction that also refreshes the parent
// model's updated_at marker. The touch runs first and doubles as the parent
// existence check: zero touched rows yield [ErrModelNotFound] before fn runs.
// Transient failures replay the whole transaction via [DB.transact].
func (r *hotspotRepository) inTouchedTx(ctx context.Context, modelID, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	touchQuery, touchArgs, err := buildTouchModelQuery(r.db.builder, modelID, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.db.transact(ctx, funcName, func(tx *sql.Tx) error {
		touched, err := tx.ExecContext(ctx, touchQuery, touchArgs...)
		if err != nil {
			log.Err(err).Str("func", funcName).Msg("error touching parent model")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected, err := touched.RowsAffected(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		} else if affected == 0 {
			return ErrModelNotFound
		}

		return fn(tx)
	})
}
