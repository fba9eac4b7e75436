package store

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/utils"
	"modelhub/models"
)

func seedUser(t *testing.T, s Store, username string) models.User {
	t.Helper()

	user, err := s.Users().CreateUser(context.Background(), models.User{
		UserID:       utils.NewID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return user
}

func seedModel(t *testing.T, s Store, owner models.User, name string, public bool) models.Model {
	t.Helper()

	now := time.Now().UTC()
	model, err := s.Models().CreateModel(context.Background(), models.Model{
		ModelID:   utils.NewID(),
		Name:      name,
		UserID:    owner.UserID,
		IsPublic:  public,
		FilePath:  "/uploads/" + name + ".glb",
		FileType:  "glb",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return model
}

func TestMemoryStore_UserUniqueness(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedUser(t, s, "john")

	_, err := s.Users().CreateUser(ctx, models.User{UserID: utils.NewID(), Username: "john", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.Users().CreateUser(ctx, models.User{UserID: utils.NewID(), Username: "jane", Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestMemoryStore_VisibilityFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	other := seedUser(t, s, "other")
	public := seedModel(t, s, owner, "public", true)
	private := seedModel(t, s, owner, "private", false)

	anonymous, err := s.Models().ListVisibleModels(ctx, "")
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.Equal(t, public.ModelID, anonymous[0].ModelID)

	asOwner, err := s.Models().ListVisibleModels(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Len(t, asOwner, 2)

	asOther, err := s.Models().ListVisibleModels(ctx, other.UserID)
	require.NoError(t, err)
	require.Len(t, asOther, 1)
	assert.NotEqual(t, private.ModelID, asOther[0].ModelID)
}

func TestMemoryStore_FindModelResolvesOwnerName(t *testing.T) {
	s := NewMemoryStore()
	owner := seedUser(t, s, "owner")
	model := seedModel(t, s, owner, "engine", true)

	found, err := s.Models().FindModelByID(context.Background(), model.ModelID)
	require.NoError(t, err)
	assert.Equal(t, "owner", found.OwnerName)
}

func TestMemoryStore_DeleteModelCascade(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	model := seedModel(t, s, owner, "engine", true)

	_, err := s.Settings().UpsertSetting(ctx, model.ModelID, models.SettingUpdate{})
	require.NoError(t, err)

	for _, name := range []string{"a", "b"} {
		_, err = s.Hotspots().CreateHotspot(ctx, models.Hotspot{
			HotspotID: utils.NewID(),
			ModelID:   model.ModelID,
			Name:      name,
			Position:  "0m 0m 0m",
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.Models().DeleteModelCascade(ctx, model.ModelID))

	_, err = s.Models().FindModelByID(ctx, model.ModelID)
	assert.ErrorIs(t, err, ErrModelNotFound)

	_, err = s.Settings().FindSettingByModelID(ctx, model.ModelID)
	assert.ErrorIs(t, err, ErrSettingNotFound)

	hotspots, err := s.Hotspots().ListHotspotsByModelID(ctx, model.ModelID)
	require.NoError(t, err)
	assert.Empty(t, hotspots)

	assert.ErrorIs(t, s.Models().DeleteModelCascade(ctx, model.ModelID), ErrModelNotFound)
}

func TestMemoryStore_UpsertSettingSingleRecord(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	model := seedModel(t, s, owner, "engine", true)

	orbit := "30deg 60deg 3m"
	first, err := s.Settings().UpsertSetting(ctx, model.ModelID, models.SettingUpdate{CameraOrbit: &orbit})
	require.NoError(t, err)
	assert.Equal(t, orbit, first.CameraOrbit)

	exposure := "1.5"
	second, err := s.Settings().UpsertSetting(ctx, model.ModelID, models.SettingUpdate{Exposure: &exposure})
	require.NoError(t, err)

	// same record updated in place, untouched fields preserved
	assert.Equal(t, first.SettingID, second.SettingID)
	assert.Equal(t, orbit, second.CameraOrbit)
	assert.Equal(t, exposure, second.Exposure)
}

func TestMemoryStore_ConcurrentUpsertsKeepOneSettingRecord(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	model := seedModel(t, s, owner, "engine", true)

	// racing first writes must all resolve to the same settings record
	const writers = 16
	ids := make(chan string, writers)
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			orbit := strconv.Itoa(i) + "deg 60deg 3m"
			setting, err := s.Settings().UpsertSetting(ctx, model.ModelID, models.SettingUpdate{CameraOrbit: &orbit})
			assert.NoError(t, err)
			ids <- setting.SettingID
		}(i)
	}
	wg.Wait()
	close(ids)

	stored, err := s.Settings().FindSettingByModelID(ctx, model.ModelID)
	require.NoError(t, err)
	for id := range ids {
		assert.Equal(t, stored.SettingID, id)
	}
}

func TestMemoryStore_UpsertSettingMissingModel(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Settings().UpsertSetting(context.Background(), "missing", models.SettingUpdate{})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestMemoryStore_HotspotMutationsTouchParent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	model := seedModel(t, s, owner, "engine", true)

	hotspot, err := s.Hotspots().CreateHotspot(ctx, models.Hotspot{
		HotspotID: utils.NewID(),
		ModelID:   model.ModelID,
		Name:      "valve",
		Position:  "0m 0m 0m",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	afterCreate, err := s.Models().FindModelByID(ctx, model.ModelID)
	require.NoError(t, err)
	assert.True(t, afterCreate.UpdatedAt.After(model.UpdatedAt) || afterCreate.UpdatedAt.Equal(model.UpdatedAt))

	name := "piston"
	require.NoError(t, s.Hotspots().UpdateHotspot(ctx, model.ModelID, hotspot.HotspotID, models.HotspotUpdate{Name: &name}))

	afterUpdate, err := s.Models().FindModelByID(ctx, model.ModelID)
	require.NoError(t, err)
	assert.False(t, afterUpdate.UpdatedAt.Before(afterCreate.UpdatedAt))

	require.NoError(t, s.Hotspots().DeleteHotspot(ctx, model.ModelID, hotspot.HotspotID))

	count, err := s.Hotspots().CountHotspotsByModelID(ctx, model.ModelID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStore_HotspotScopedToModel(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	first := seedModel(t, s, owner, "first", true)
	second := seedModel(t, s, owner, "second", true)

	hotspot, err := s.Hotspots().CreateHotspot(ctx, models.Hotspot{
		HotspotID: utils.NewID(),
		ModelID:   first.ModelID,
		Name:      "valve",
		Position:  "0m 0m 0m",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	// reachable only through its own model
	name := "other"
	assert.ErrorIs(t, s.Hotspots().UpdateHotspot(ctx, second.ModelID, hotspot.HotspotID, models.HotspotUpdate{Name: &name}), ErrHotspotNotFound)
	assert.ErrorIs(t, s.Hotspots().DeleteHotspot(ctx, second.ModelID, hotspot.HotspotID), ErrHotspotNotFound)
}

func TestMemoryStore_HotspotInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := seedUser(t, s, "owner")
	model := seedModel(t, s, owner, "engine", true)

	names := []string{"first", "second", "third"}
	for _, name := range names {
		_, err := s.Hotspots().CreateHotspot(ctx, models.Hotspot{
			HotspotID: utils.NewID(),
			ModelID:   model.ModelID,
			Name:      name,
			Position:  "0m 0m 0m",
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	hotspots, err := s.Hotspots().ListHotspotsByModelID(ctx, model.ModelID)
	require.NoError(t, err)
	require.Len(t, hotspots, 3)
	for i, name := range names {
		assert.Equal(t, name, hotspots[i].Name)
	}
}

func TestEnsureAdmin_CreatesOnlyOnEmptyStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	log := testLogger()

	require.NoError(t, EnsureAdmin(ctx, s, "admin123", log))

	admin, err := s.Users().FindUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "admin123", admin.PasswordHash)

	// second run is a no-op even after the admin is renamed away
	require.NoError(t, EnsureAdmin(ctx, s, "admin123", log))
	count, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
