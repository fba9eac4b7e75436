package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"modelhub/internal/config"
	"modelhub/internal/logger"
	"modelhub/internal/utils"
	"modelhub/models"
)

// Redis key layout. Records are stored as JSON documents under per-record
// keys; list keys preserve insertion order and index keys map unique fields
// back to record IDs.
const (
	keyUser          = "user:%s"           // JSON user document
	keyUsernameIdx   = "username:%s"       // username -> user ID
	keyEmailIdx      = "email:%s"          // email -> user ID
	keyUsersAll      = "users:all"         // set of user IDs
	keyModel         = "model:%s"          // JSON model document
	keyModelsAll     = "models:all"        // list of model IDs, insertion order
	keySetting       = "setting:%s"        // JSON settings document, keyed by model ID
	keyHotspot       = "hotspot:%s"        // JSON hotspot document
	keyModelHotspots = "model:%s:hotspots" // list of hotspot IDs, insertion order
)

// RedisStore is the document implementation of [Store] on top of Redis.
//
// The single settings key per model ("setting:{modelID}") makes the
// one-row-per-model invariant structural: there is no second place a
// concurrent writer could put a settings document. Multi-key mutations go
// through MULTI/EXEC pipelines, with WATCH guarding read-modify-write
// cycles.
type RedisStore struct {
	client *redis.Client
	logger *logger.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server named in cfg and verifies the
// connection with a ping before returning.
func NewRedisStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisStore").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("error connecting redis: %w", err)
	}
	log.Info().Str("func", "NewRedisStore").Str("addr", cfg.RedisAddr).Msg("connected to redis successfully")

	return &RedisStore{client: client, logger: log}, nil
}

func (s *RedisStore) Users() UserRepository       { return (*redisUserRepository)(s) }
func (s *RedisStore) Models() ModelRepository     { return (*redisModelRepository)(s) }
func (s *RedisStore) Settings() SettingRepository { return (*redisSettingRepository)(s) }
func (s *RedisStore) Hotspots() HotspotRepository { return (*redisHotspotRepository)(s) }

// Ping implements [Store].
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements [Store].
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// getJSON loads and unmarshals the document at key into out. A missing key
// yields notFound.
func (s *RedisStore) getJSON(ctx context.Context, key string, out any, notFound error) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return nil
}

func mustJSON(v any) []byte {
	raw, _ := json.Marshal(v)
	return raw
}

// maxWatchAttempts bounds optimistic retries when a WATCH transaction is
// invalidated by a concurrent writer.
const maxWatchAttempts = 5

// watchRetry runs fn under WATCH on keys. A transaction aborted by a
// concurrent write to a watched key is replayed, up to maxWatchAttempts
// attempts, so losing the race reads the fresh document instead of failing.
func (s *RedisStore) watchRetry(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	return watchWithRetry(ctx, s.client.Watch, fn, keys...)
}

func watchWithRetry(ctx context.Context, watch func(context.Context, func(*redis.Tx) error, ...string) error, fn func(tx *redis.Tx) error, keys ...string) error {
	var err error
	for attempt := 1; attempt <= maxWatchAttempts; attempt++ {
		if err = watch(ctx, fn, keys...); !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

type redisUserRepository RedisStore

// CreateUser persists a new user document and claims the username and email
// index keys. Claiming is done with SETNX so two concurrent registrations
// with the same username can never both succeed.
func (r *redisUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	claimed, err := r.client.SetNX(ctx, fmt.Sprintf(keyUsernameIdx, user.Username), user.UserID, 0).Result()
	if err != nil {
		log.Err(err).Str("func", "*redisUserRepository.CreateUser").Msg("error claiming username index")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if !claimed {
		return models.User{}, ErrUsernameTaken
	}

	claimed, err = r.client.SetNX(ctx, fmt.Sprintf(keyEmailIdx, user.Email), user.UserID, 0).Result()
	if err != nil {
		log.Err(err).Str("func", "*redisUserRepository.CreateUser").Msg("error claiming email index")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if !claimed {
		// release the username claimed above
		r.client.Del(ctx, fmt.Sprintf(keyUsernameIdx, user.Username))
		return models.User{}, ErrEmailTaken
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(keyUser, user.UserID), mustJSON(user), 0)
	pipe.SAdd(ctx, keyUsersAll, user.UserID)
	if _, err = pipe.Exec(ctx); err != nil {
		log.Err(err).Str("func", "*redisUserRepository.CreateUser").Msg("error storing user document")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// FindUserByID retrieves a user document by ID.
func (r *redisUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := (*RedisStore)(r).getJSON(ctx, fmt.Sprintf(keyUser, userID), &user, ErrUserNotFound); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindUserByUsername resolves the username index and loads the user document.
func (r *redisUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	userID, err := r.client.Get(ctx, fmt.Sprintf(keyUsernameIdx, username)).Result()
	if errors.Is(err, redis.Nil) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return r.FindUserByID(ctx, userID)
}

// UpdateUser overwrites the mutable profile fields of the stored user
// document, moving the email index when the email changes.
func (r *redisUserRepository) UpdateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)
	userKey := fmt.Sprintf(keyUser, user.UserID)

	err := (*RedisStore)(r).watchRetry(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, userKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		var stored models.User
		if err = json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		oldEmail := stored.Email
		if user.Email != oldEmail {
			claimed, err := r.client.SetNX(ctx, fmt.Sprintf(keyEmailIdx, user.Email), user.UserID, 0).Result()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			if !claimed {
				return ErrEmailTaken
			}
		}

		stored.Email = user.Email
		stored.PasswordHash = user.PasswordHash
		stored.AvatarURL = user.AvatarURL
		stored.Bio = user.Bio

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey, mustJSON(stored), 0)
			if stored.Email != oldEmail {
				pipe.Del(ctx, fmt.Sprintf(keyEmailIdx, oldEmail))
			}
			return nil
		})
		return err
	}, userKey)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrEmailTaken) {
			return err
		}
		log.Err(err).Str("func", "*redisUserRepository.UpdateUser").Msg("error updating user document")
		return err
	}

	return nil
}

// CountUsers returns the number of registered users.
func (r *redisUserRepository) CountUsers(ctx context.Context) (int64, error) {
	count, err := r.client.SCard(ctx, keyUsersAll).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

type redisModelRepository RedisStore

// CreateModel stores the model document and appends its ID to the global
// insertion-order list.
func (r *redisModelRepository) CreateModel(ctx context.Context, model models.Model) (models.Model, error) {
	log := logger.FromContext(ctx)

	stored := model
	stored.OwnerName = ""
	stored.HotspotCount = 0

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(keyModel, model.ModelID), mustJSON(stored), 0)
	pipe.RPush(ctx, keyModelsAll, model.ModelID)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Err(err).Str("func", "*redisModelRepository.CreateModel").Msg("error storing model document")
		return models.Model{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return model, nil
}

// FindModelByID retrieves a model document and resolves its owner's username.
func (r *redisModelRepository) FindModelByID(ctx context.Context, modelID string) (models.Model, error) {
	var model models.Model
	if err := (*RedisStore)(r).getJSON(ctx, fmt.Sprintf(keyModel, modelID), &model, ErrModelNotFound); err != nil {
		return models.Model{}, err
	}

	owner, err := (*RedisStore)(r).Users().FindUserByID(ctx, model.UserID)
	if err == nil {
		model.OwnerName = owner.Username
	}

	return model, nil
}

// ListVisibleModels returns public models plus the caller's own private
// models, newest first.
func (r *redisModelRepository) ListVisibleModels(ctx context.Context, userID string) ([]models.Model, error) {
	all, err := r.loadAllModels(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Model, 0, len(all))
	for _, m := range all {
		if m.IsPublic || (userID != "" && m.UserID == userID) {
			visible = append(visible, m)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].CreatedAt.After(visible[j].CreatedAt) })

	return visible, nil
}

// ListModelsByOwner returns every model owned by userID with hotspot counts,
// most recently updated first.
func (r *redisModelRepository) ListModelsByOwner(ctx context.Context, userID string) ([]models.Model, error) {
	all, err := r.loadAllModels(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]models.Model, 0, len(all))
	for _, m := range all {
		if m.UserID != userID {
			continue
		}
		count, err := r.client.LLen(ctx, fmt.Sprintf(keyModelHotspots, m.ModelID)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		m.HotspotCount = count
		owned = append(owned, m)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].UpdatedAt.After(owned[j].UpdatedAt) })

	return owned, nil
}

// loadAllModels reads the insertion-order list and bulk-loads every model
// document, resolving owner usernames as it goes. IDs whose documents are
// gone (concurrent delete) are skipped.
func (r *redisModelRepository) loadAllModels(ctx context.Context) ([]models.Model, error) {
	ids, err := r.client.LRange(ctx, keyModelsAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if len(ids) == 0 {
		return []models.Model{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(keyModel, id)
	}
	raws, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	owners := map[string]string{}
	out := make([]models.Model, 0, len(raws))
	for _, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var m models.Model
		if err = json.Unmarshal([]byte(str), &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if _, cached := owners[m.UserID]; !cached {
			owner, err := (*RedisStore)(r).Users().FindUserByID(ctx, m.UserID)
			if err == nil {
				owners[m.UserID] = owner.Username
			} else {
				owners[m.UserID] = ""
			}
		}
		m.OwnerName = owners[m.UserID]
		out = append(out, m)
	}

	return out, nil
}

// UpdateModel applies the partial update under WATCH so concurrent updates
// to the same document retry rather than overwrite each other.
func (r *redisModelRepository) UpdateModel(ctx context.Context, modelID string, update models.ModelUpdate) (models.Model, error) {
	log := logger.FromContext(ctx)
	modelKey := fmt.Sprintf(keyModel, modelID)

	var updated models.Model
	err := (*RedisStore)(r).watchRetry(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, modelKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		var model models.Model
		if err = json.Unmarshal(raw, &model); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		if update.Name != nil {
			model.Name = *update.Name
		}
		if update.Description != nil {
			model.Description = *update.Description
		}
		if update.IsPublic != nil {
			model.IsPublic = *update.IsPublic
		}
		if update.ThumbnailPath != nil {
			model.ThumbnailPath = *update.ThumbnailPath
		}
		model.UpdatedAt = time.Now().UTC()

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, modelKey, mustJSON(model), 0)
			return nil
		})
		updated = model
		return err
	}, modelKey)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			return models.Model{}, err
		}
		log.Err(err).Str("func", "*redisModelRepository.UpdateModel").Msg("error updating model document")
		return models.Model{}, err
	}

	owner, err := (*RedisStore)(r).Users().FindUserByID(ctx, updated.UserID)
	if err == nil {
		updated.OwnerName = owner.Username
	}

	return updated, nil
}

// DeleteModelCascade removes the settings document, every hotspot document,
// the hotspot list, the model document, and the list entry in one MULTI/EXEC
// pipeline.
func (r *redisModelRepository) DeleteModelCascade(ctx context.Context, modelID string) error {
	log := logger.FromContext(ctx)
	modelKey := fmt.Sprintf(keyModel, modelID)

	exists, err := r.client.Exists(ctx, modelKey).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if exists == 0 {
		return ErrModelNotFound
	}

	hotspotIDs, err := r.client.LRange(ctx, fmt.Sprintf(keyModelHotspots, modelID), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(keySetting, modelID))
	for _, hid := range hotspotIDs {
		pipe.Del(ctx, fmt.Sprintf(keyHotspot, hid))
	}
	pipe.Del(ctx, fmt.Sprintf(keyModelHotspots, modelID))
	pipe.Del(ctx, modelKey)
	pipe.LRem(ctx, keyModelsAll, 0, modelID)
	if _, err = pipe.Exec(ctx); err != nil {
		log.Err(err).Str("func", "*redisModelRepository.DeleteModelCascade").Msg("error deleting model documents")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

type redisSettingRepository RedisStore

// FindSettingByModelID retrieves the settings document for the model.
func (r *redisSettingRepository) FindSettingByModelID(ctx context.Context, modelID string) (models.ModelSetting, error) {
	var setting models.ModelSetting
	if err := (*RedisStore)(r).getJSON(ctx, fmt.Sprintf(keySetting, modelID), &setting, ErrSettingNotFound); err != nil {
		return models.ModelSetting{}, err
	}
	return setting, nil
}

// UpsertSetting creates or partially updates the model's settings document
// and touches the parent model, under WATCH on both keys.
func (r *redisSettingRepository) UpsertSetting(ctx context.Context, modelID string, update models.SettingUpdate) (models.ModelSetting, error) {
	log := logger.FromContext(ctx)
	modelKey := fmt.Sprintf(keyModel, modelID)
	settingKey := fmt.Sprintf(keySetting, modelID)
	now := time.Now().UTC()

	var result models.ModelSetting
	err := (*RedisStore)(r).watchRetry(ctx, func(tx *redis.Tx) error {
		rawModel, err := tx.Get(ctx, modelKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		var model models.Model
		if err = json.Unmarshal(rawModel, &model); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		model.UpdatedAt = now

		setting := models.ModelSetting{
			SettingID: utils.NewID(),
			ModelID:   modelID,
			CreatedAt: now,
		}
		rawSetting, err := tx.Get(ctx, settingKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if err == nil {
			if err = json.Unmarshal(rawSetting, &setting); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
		}

		update.Apply(&setting)
		setting.UpdatedAt = now

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, settingKey, mustJSON(setting), 0)
			pipe.Set(ctx, modelKey, mustJSON(model), 0)
			return nil
		})
		result = setting
		return err
	}, modelKey, settingKey)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			return models.ModelSetting{}, err
		}
		log.Err(err).Str("func", "*redisSettingRepository.UpsertSetting").Msg("error upserting settings document")
		return models.ModelSetting{}, err
	}

	return result, nil
}

type redisHotspotRepository RedisStore

// CreateHotspot stores the hotspot document, appends its ID to the model's
// insertion-order list, and touches the parent model in one pipeline.
func (r *redisHotspotRepository) CreateHotspot(ctx context.Context, hotspot models.Hotspot) (models.Hotspot, error) {
	log := logger.FromContext(ctx)
	modelKey := fmt.Sprintf(keyModel, hotspot.ModelID)

	err := r.touchModelPipelined(ctx, modelKey, func(pipe redis.Pipeliner) {
		pipe.Set(ctx, fmt.Sprintf(keyHotspot, hotspot.HotspotID), mustJSON(hotspot), 0)
		pipe.RPush(ctx, fmt.Sprintf(keyModelHotspots, hotspot.ModelID), hotspot.HotspotID)
	})
	if err != nil {
		if !errors.Is(err, ErrModelNotFound) {
			log.Err(err).Str("func", "*redisHotspotRepository.CreateHotspot").Msg("error storing hotspot document")
		}
		return models.Hotspot{}, err
	}

	return hotspot, nil
}

// ListHotspotsByModelID returns the model's hotspots in insertion order.
func (r *redisHotspotRepository) ListHotspotsByModelID(ctx context.Context, modelID string) ([]models.Hotspot, error) {
	ids, err := r.client.LRange(ctx, fmt.Sprintf(keyModelHotspots, modelID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	out := make([]models.Hotspot, 0, len(ids))
	for _, id := range ids {
		var h models.Hotspot
		err = (*RedisStore)(r).getJSON(ctx, fmt.Sprintf(keyHotspot, id), &h, ErrHotspotNotFound)
		if errors.Is(err, ErrHotspotNotFound) {
			continue // concurrently deleted
		}
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}

	return out, nil
}

// CountHotspotsByModelID returns the number of hotspots under the model.
func (r *redisHotspotRepository) CountHotspotsByModelID(ctx context.Context, modelID string) (int64, error) {
	count, err := r.client.LLen(ctx, fmt.Sprintf(keyModelHotspots, modelID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

// UpdateHotspot applies the partial update to the hotspot document and
// touches the parent model. A hotspot stored under a different model yields
// [ErrHotspotNotFound].
func (r *redisHotspotRepository) UpdateHotspot(ctx context.Context, modelID, hotspotID string, update models.HotspotUpdate) error {
	log := logger.FromContext(ctx)

	var hotspot models.Hotspot
	if err := (*RedisStore)(r).getJSON(ctx, fmt.Sprintf(keyHotspot, hotspotID), &hotspot, ErrHotspotNotFound); err != nil {
		return err
	}
	if hotspot.ModelID != modelID {
		return ErrHotspotNotFound
	}

	update.Apply(&hotspot)

	err := r.touchModelPipelined(ctx, fmt.Sprintf(keyModel, modelID), func(pipe redis.Pipeliner) {
		pipe.Set(ctx, fmt.Sprintf(keyHotspot, hotspotID), mustJSON(hotspot), 0)
	})
	if err != nil && !errors.Is(err, ErrModelNotFound) {
		log.Err(err).Str("func", "*redisHotspotRepository.UpdateHotspot").Msg("error updating hotspot document")
	}
	return err
}

// DeleteHotspot removes the hotspot document and its list entry and touches
// the parent model.
func (r *redisHotspotRepository) DeleteHotspot(ctx context.Context, modelID, hotspotID string) error {
	log := logger.FromContext(ctx)

	var hotspot models.Hotspot
	if err := (*RedisStore)(r).getJSON(ctx, fmt.Sprintf(keyHotspot, hotspotID), &hotspot, ErrHotspotNotFound); err != nil {
		return err
	}
	if hotspot.ModelID != modelID {
		return ErrHotspotNotFound
	}

	err := r.touchModelPipelined(ctx, fmt.Sprintf(keyModel, modelID), func(pipe redis.Pipeliner) {
		pipe.Del(ctx, fmt.Sprintf(keyHotspot, hotspotID))
		pipe.LRem(ctx, fmt.Sprintf(keyModelHotspots, modelID), 0, hotspotID)
	})
	if err != nil && !errors.Is(err, ErrModelNotFound) {
		log.Err(err).Str("func", "*redisHotspotRepository.DeleteHotspot").Msg("error deleting hotspot document")
	}
	return err
}

// touchModelPipelined loads the model document under WATCH, refreshes its
// updated_at, and commits the refreshed document together with the commands
// queued by fn in one MULTI/EXEC. A missing model yields [ErrModelNotFound]
// before fn's commands run.
func (r *redisHotspotRepository) touchModelPipelined(ctx context.Context, modelKey string, fn func(pipe redis.Pipeliner)) error {
	return (*RedisStore)(r).watchRetry(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, modelKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		var model models.Model
		if err = json.Unmarshal(raw, &model); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		model.UpdatedAt = time.Now().UTC()

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			fn(pipe)
			pipe.Set(ctx, modelKey, mustJSON(model), 0)
			return nil
		})
		return err
	}, modelKey)
}
