package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"modelhub/internal/logger"
	"modelhub/models"
)

// modelRepository is the SQL-backed implementation of [ModelRepository].
//
// All mutations that affect dependent records run inside a single
// transaction so the cascade and updated_at invariants hold even when the
// process dies mid-operation.
type modelRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewModelRepository constructs a [ModelRepository] backed by the provided
// database connection and logger.
func NewModelRepository(db *DB, logger *logger.Logger) ModelRepository {
	logger.Debug().Msg("creating model repository")
	return &modelRepository{
		db:     db,
		logger: logger,
	}
}

// CreateModel persists a new model record and returns it.
func (r *modelRepository) CreateModel(ctx context.Context, model models.Model) (models.Model, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Insert(model.TableName()).
		Columns(modelColumns...).
		Values(model.ModelID, model.Name, model.Description, model.UserID, model.IsPublic,
			model.FilePath, model.ThumbnailPath, model.FileSize, model.FileType,
			model.CreatedAt, model.UpdatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.CreateModel").Msg("error building query")
		return models.Model{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*modelRepository.CreateModel").Msg("error inserting model")
		return models.Model{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return model, nil
}

// FindModelByID retrieves a model together with its owner's username.
func (r *modelRepository) FindModelByID(ctx context.Context, modelID string) (models.Model, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(prefixColumns("m", modelColumns)...).
		Column("u.username").
		From(models.Model{}.TableName() + " m").
		Join(models.User{}.TableName() + " u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.id": modelID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.FindModelByID").Msg("error building query")
		return models.Model{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	found, err := scanModel(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Model{}, ErrModelNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.FindModelByID").Msg("error: scanning error")
		return models.Model{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// ListVisibleModels returns public models plus, when userID is non-empty,
// the private models owned by userID, newest first.
func (r *modelRepository) ListVisibleModels(ctx context.Context, userID string) ([]models.Model, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectVisibleModelsQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.ListVisibleModels").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.ListVisibleModels").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	found := make([]models.Model, 0)
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			log.Err(err).Str("func", "*modelRepository.ListVisibleModels").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		found = append(found, model)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// ListModelsByOwner returns every model owned by userID together with its
// hotspot count, most recently updated first.
func (r *modelRepository) ListModelsByOwner(ctx context.Context, userID string) ([]models.Model, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectModelsByOwnerQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.ListModelsByOwner").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.ListModelsByOwner").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	found := make([]models.Model, 0)
	for rows.Next() {
		var model models.Model
		err = rows.Scan(&model.ModelID, &model.Name, &model.Description, &model.UserID,
			&model.IsPublic, &model.FilePath, &model.ThumbnailPath, &model.FileSize,
			&model.FileType, &model.CreatedAt, &model.UpdatedAt,
			&model.OwnerName, &model.HotspotCount)
		if err != nil {
			log.Err(err).Str("func", "*modelRepository.ListModelsByOwner").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		found = append(found, model)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// UpdateModel applies the partial update and refreshes updated_at, then reads
// the canonical record back.
func (r *modelRepository) UpdateModel(ctx context.Context, modelID string, update models.ModelUpdate) (models.Model, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateModelQuery(r.db.builder, modelID, update, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.UpdateModel").Msg("error building query")
		return models.Model{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.UpdateModel").Msg("error updating model")
		return models.Model{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*modelRepository.UpdateModel").Msg("error reading affected rows")
		return models.Model{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return models.Model{}, ErrModelNotFound
	}

	return r.FindModelByID(ctx, modelID)
}

// DeleteModelCascade removes the model's settings record, all of its
// hotspots, and the model row itself inside one transaction. Dependent
// records go first so the foreign keys never block the delete.
func (r *modelRepository) DeleteModelCascade(ctx context.Context, modelID string) error {
	log := logger.FromContext(ctx)

	return r.db.transact(ctx, "*modelRepository.DeleteModelCascade", func(tx *sql.Tx) error {
		for _, table := range []string{models.ModelSetting{}.TableName(), models.Hotspot{}.TableName()} {
			query, args, err := r.db.builder.Delete(table).
				Where(squirrel.Eq{"model_id": modelID}).
				ToSql()
			if err != nil {
				log.Err(err).Str("func", "*modelRepository.DeleteModelCascade").Msg("error building query")
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				log.Err(err).Str("func", "*modelRepository.DeleteModelCascade").Str("table", table).Msg("error deleting dependent records")
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
		}

		query, args, err := r.db.builder.Delete(models.Model{}.TableName()).
			Where(squirrel.Eq{"id": modelID}).
			ToSql()
		if err != nil {
			log.Err(err).Str("func", "*modelRepository.DeleteModelCascade").Msg("error building query")
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "*modelRepository.DeleteModelCascade").Msg("error deleting model")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			log.Err(err).Str("func", "*modelRepository.DeleteModelCascade").Msg("error reading affected rows")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected == 0 {
			return ErrModelNotFound
		}

		return nil
	})
}

// scanModel scans one model row including the joined owner username.
func scanModel(row squirrel.RowScanner) (models.Model, error) {
	var model models.Model
	err := row.Scan(&model.ModelID, &model.Name, &model.Description, &model.UserID,
		&model.IsPublic, &model.FilePath, &model.ThumbnailPath, &model.FileSize,
		&model.FileType, &model.CreatedAt, &model.UpdatedAt, &model.OwnerName)
	return model, err
}
