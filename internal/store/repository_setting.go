package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"modelhub/internal/logger"
	"modelhub/internal/utils"
	"modelhub/models"
)

// settingRepository is the SQL-backed implementation of [SettingRepository].
//
// The one-row-per-model invariant rests on the UNIQUE(model_id) constraint:
// the upsert is a single INSERT .. ON CONFLICT statement, so two concurrent
// first writes can never leave two settings rows behind.
type settingRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSettingRepository constructs a [SettingRepository] backed by the
// provided database connection and logger.
func NewSettingRepository(db *DB, logger *logger.Logger) SettingRepository {
	logger.Debug().Msg("creating setting repository")
	return &settingRepository{
		db:     db,
		logger: logger,
	}
}

// FindSettingByModelID retrieves the settings record for the model.
func (r *settingRepository) FindSettingByModelID(ctx context.Context, modelID string) (models.ModelSetting, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(settingColumns...).
		From(models.ModelSetting{}.TableName()).
		Where(squirrel.Eq{"model_id": modelID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.FindSettingByModelID").Msg("error building query")
		return models.ModelSetting{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	found, err := scanSetting(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ModelSetting{}, ErrSettingNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*settingRepository.FindSettingByModelID").Msg("error: scanning error")
		return models.ModelSetting{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// UpsertSetting creates or partially updates the settings record for the
// model and refreshes the parent model's updated_at marker, all within one
// transaction.
//
// The update is applied on top of the current stored values (or a zero
// record on first write), then written with INSERT .. ON CONFLICT (model_id)
// so the UNIQUE constraint, not application logic, decides between insert
// and update.
func (r *settingRepository) UpsertSetting(ctx context.Context, modelID string, update models.SettingUpdate) (models.ModelSetting, error) {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()

	var setting models.ModelSetting
	err := r.db.transact(ctx, "*settingRepository.UpsertSetting", func(tx *sql.Tx) error {
		// Touching the parent first both refreshes updated_at and proves the
		// model exists before any settings row is written.
		touchQuery, touchArgs, err := buildTouchModelQuery(r.db.builder, modelID, now)
		if err != nil {
			log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error building query")
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		touched, err := tx.ExecContext(ctx, touchQuery, touchArgs...)
		if err != nil {
			log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error touching parent model")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected, err := touched.RowsAffected(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		} else if affected == 0 {
			return ErrModelNotFound
		}

		// Read the current record inside the transaction so the partial update
		// is applied to the freshest stored values. A replayed transaction
		// rereads, so retries never apply the update to stale data.
		selectQuery, selectArgs, err := r.db.builder.Select(settingColumns...).
			From(models.ModelSetting{}.TableName()).
			Where(squirrel.Eq{"model_id": modelID}).
			ToSql()
		if err != nil {
			log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error building query")
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		setting, err = scanSetting(tx.QueryRowContext(ctx, selectQuery, selectArgs...))
		if errors.Is(err, sql.ErrNoRows) {
			setting = models.ModelSetting{
				SettingID: utils.NewID(),
				ModelID:   modelID,
				CreatedAt: now,
			}
		} else if err != nil {
			log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error: scanning error")
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		update.Apply(&setting)
		setting.UpdatedAt = now

		upsertQuery, upsertArgs, err := r.db.builder.Insert(setting.TableName()).
			Columns(settingColumns...).
			Values(setting.SettingID, setting.ModelID, setting.CameraOrbit, setting.CameraTarget,
				setting.FieldOfView, setting.Exposure, setting.ShadowIntensity, setting.ShadowSoftness,
				setting.EnvironmentImage, setting.SkyboxImage, setting.AnimationName, setting.Autoplay,
				setting.CreatedAt, setting.UpdatedAt).
			Suffix(`ON CONFLICT (model_id) DO UPDATE SET
				camera_orbit = EXCLUDED.camera_orbit,
				camera_target = EXCLUDED.camera_target,
				field_of_view = EXCLUDED.field_of_view,
				exposure = EXCLUDED.exposure,
				shadow_intensity = EXCLUDED.shadow_intensity,
				shadow_softness = EXCLUDED.shadow_softness,
				environment_image = EXCLUDED.environment_image,
				skybox_image = EXCLUDED.skybox_image,
				animation_name = EXCLUDED.animation_name,
				autoplay = EXCLUDED.autoplay,
				updated_at = EXCLUDED.updated_at`).
			ToSql()
		if err != nil {
			log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error building query")
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
			log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error upserting settings")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		return nil
	})
	if err != nil {
		return models.ModelSetting{}, err
	}

	return setting, nil
}

// scanSetting scans one model_settings row.
func scanSetting(row squirrel.RowScanner) (models.ModelSetting, error) {
	var s models.ModelSetting
	err := row.Scan(&s.SettingID, &s.ModelID, &s.CameraOrbit, &s.CameraTarget, &s.FieldOfView,
		&s.Exposure, &s.ShadowIntensity, &s.ShadowSoftness, &s.EnvironmentImage,
		&s.SkyboxImage, &s.AnimationName, &s.Autoplay, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
