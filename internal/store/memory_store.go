package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"modelhub/internal/utils"
	"modelhub/models"
)

// MemoryStore is the in-memory implementation of [Store]. It backs local
// development and serves as the automatic fallback when the primary backend
// stays unreachable past the configured window. Everything lives in maps
// behind one RWMutex; hotspot order is kept in explicit per-model slices.
//
// All records are copied on the way in and out so callers can never mutate
// stored state through a returned value.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[string]models.User         // by user ID
	models   map[string]models.Model        // by model ID
	modelIDs []string                       // insertion order
	settings map[string]models.ModelSetting // by model ID
	hotspots map[string]models.Hotspot      // by hotspot ID
	byModel  map[string][]string            // model ID -> hotspot IDs, insertion order
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory [Store].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		models:   make(map[string]models.Model),
		settings: make(map[string]models.ModelSetting),
		hotspots: make(map[string]models.Hotspot),
		byModel:  make(map[string][]string),
	}
}

func (s *MemoryStore) Users() UserRepository       { return (*memoryUserRepository)(s) }
func (s *MemoryStore) Models() ModelRepository     { return (*memoryModelRepository)(s) }
func (s *MemoryStore) Settings() SettingRepository { return (*memorySettingRepository)(s) }
func (s *MemoryStore) Hotspots() HotspotRepository { return (*memoryHotspotRepository)(s) }

// Ping implements [Store]. The in-memory backend is always reachable.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close implements [Store].
func (s *MemoryStore) Close() error { return nil }

type memoryUserRepository MemoryStore

func (r *memoryUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return models.User{}, ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return models.User{}, ErrEmailTaken
		}
	}

	r.users[user.UserID] = user
	return user, nil
}

func (r *memoryUserRepository) FindUserByID(_ context.Context, userID string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *memoryUserRepository) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *memoryUserRepository) UpdateUser(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.UserID]
	if !ok {
		return ErrUserNotFound
	}

	if user.Email != stored.Email {
		for id, existing := range r.users {
			if id != user.UserID && existing.Email == user.Email {
				return ErrEmailTaken
			}
		}
	}

	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.AvatarURL = user.AvatarURL
	stored.Bio = user.Bio
	r.users[user.UserID] = stored
	return nil
}

func (r *memoryUserRepository) CountUsers(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

type memoryModelRepository MemoryStore

func (r *memoryModelRepository) CreateModel(_ context.Context, model models.Model) (models.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := model
	stored.OwnerName = ""
	stored.HotspotCount = 0
	r.models[model.ModelID] = stored
	r.modelIDs = append(r.modelIDs, model.ModelID)
	return model, nil
}

func (r *memoryModelRepository) FindModelByID(_ context.Context, modelID string) (models.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, ok := r.models[modelID]
	if !ok {
		return models.Model{}, ErrModelNotFound
	}
	return r.withOwnerName(model), nil
}

func (r *memoryModelRepository) ListVisibleModels(_ context.Context, userID string) ([]models.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make([]models.Model, 0, len(r.modelIDs))
	for _, id := range r.modelIDs {
		model := r.models[id]
		if model.IsPublic || (userID != "" && model.UserID == userID) {
			visible = append(visible, r.withOwnerName(model))
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].CreatedAt.After(visible[j].CreatedAt) })
	return visible, nil
}

func (r *memoryModelRepository) ListModelsByOwner(_ context.Context, userID string) ([]models.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.Model, 0)
	for _, id := range r.modelIDs {
		model := r.models[id]
		if model.UserID != userID {
			continue
		}
		out := r.withOwnerName(model)
		out.HotspotCount = int64(len(r.byModel[id]))
		owned = append(owned, out)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].UpdatedAt.After(owned[j].UpdatedAt) })
	return owned, nil
}

func (r *memoryModelRepository) UpdateModel(_ context.Context, modelID string, update models.ModelUpdate) (models.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	model, ok := r.models[modelID]
	if !ok {
		return models.Model{}, ErrModelNotFound
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

	r.models[modelID] = model
	return r.withOwnerName(model), nil
}

func (r *memoryModelRepository) DeleteModelCascade(_ context.Context, modelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[modelID]; !ok {
		return ErrModelNotFound
	}

	delete(r.settings, modelID)
	for _, hid := range r.byModel[modelID] {
		delete(r.hotspots, hid)
	}
	delete(r.byModel, modelID)
	delete(r.models, modelID)
	for i, id := range r.modelIDs {
		if id == modelID {
			r.modelIDs = append(r.modelIDs[:i], r.modelIDs[i+1:]...)
			break
		}
	}
	return nil
}

// withOwnerName returns a copy of model with OwnerName resolved. Callers must
// hold at least a read lock.
func (r *memoryModelRepository) withOwnerName(model models.Model) models.Model {
	if owner, ok := r.users[model.UserID]; ok {
		model.OwnerName = owner.Username
	}
	return model
}

type memorySettingRepository MemoryStore

func (r *memorySettingRepository) FindSettingByModelID(_ context.Context, modelID string) (models.ModelSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	setting, ok := r.settings[modelID]
	if !ok {
		return models.ModelSetting{}, ErrSettingNotFound
	}
	return setting, nil
}

func (r *memorySettingRepository) UpsertSetting(_ context.Context, modelID string, update models.SettingUpdate) (models.ModelSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	model, ok := r.models[modelID]
	if !ok {
		return models.ModelSetting{}, ErrModelNotFound
	}

	now := time.Now().UTC()
	setting, ok := r.settings[modelID]
	if !ok {
		setting = models.ModelSetting{
			SettingID: utils.NewID(),
			ModelID:   modelID,
			CreatedAt: now,
		}
	}

	update.Apply(&setting)
	setting.UpdatedAt = now
	r.settings[modelID] = setting

	model.UpdatedAt = now
	r.models[modelID] = model

	return setting, nil
}

type memoryHotspotRepository MemoryStore

func (r *memoryHotspotRepository) CreateHotspot(_ context.Context, hotspot models.Hotspot) (models.Hotspot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	model, ok := r.models[hotspot.ModelID]
	if !ok {
		return models.Hotspot{}, ErrModelNotFound
	}

	r.hotspots[hotspot.HotspotID] = hotspot
	r.byModel[hotspot.ModelID] = append(r.byModel[hotspot.ModelID], hotspot.HotspotID)

	model.UpdatedAt = time.Now().UTC()
	r.models[hotspot.ModelID] = model

	return hotspot, nil
}

func (r *memoryHotspotRepository) ListHotspotsByModelID(_ context.Context, modelID string) ([]models.Hotspot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byModel[modelID]
	out := make([]models.Hotspot, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.hotspots[id])
	}
	return out, nil
}

func (r *memoryHotspotRepository) CountHotspotsByModelID(_ context.Context, modelID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byModel[modelID])), nil
}

func (r *memoryHotspotRepository) UpdateHotspot(_ context.Context, modelID, hotspotID string, update models.HotspotUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hotspot, ok := r.hotspots[hotspotID]
	if !ok || hotspot.ModelID != modelID {
		return ErrHotspotNotFound
	}
	model, ok := r.models[modelID]
	if !ok {
		return ErrModelNotFound
	}

	update.Apply(&hotspot)
	r.hotspots[hotspotID] = hotspot

	model.UpdatedAt = time.Now().UTC()
	r.models[modelID] = model
	return nil
}

func (r *memoryHotspotRepository) DeleteHotspot(_ context.Context, modelID, hotspotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hotspot, ok := r.hotspots[hotspotID]
	if !ok || hotspot.ModelID != modelID {
		return ErrHotspotNotFound
	}
	model, ok := r.models[modelID]
	if !ok {
		return ErrModelNotFound
	}

	delete(r.hotspots, hotspotID)
	ids := r.byModel[modelID]
	for i, id := range ids {
		if id == hotspotID {
			r.byModel[modelID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	model.UpdatedAt = time.Now().UTC()
	r.models[modelID] = model
	return nil
}
