package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/models"
)

func TestSettingGet_DefaultsWhenNeverSaved(t *testing.T) {
	f := newModelFixture(t)
	svc := NewSettingService(f.store, logger.Nop())
	model := f.create(t, true)

	setting, err := svc.Get(context.Background(), "", model.ModelID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCameraOrbit, setting.CameraOrbit)
	assert.Equal(t, models.DefaultFieldOfView, setting.FieldOfView)
	assert.False(t, setting.Autoplay)
}

func TestSettingGet_Visibility(t *testing.T) {
	f := newModelFixture(t)
	svc := NewSettingService(f.store, logger.Nop())
	ctx := context.Background()
	private := f.create(t, false)

	_, err := svc.Get(ctx, f.other.UserID, private.ModelID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, f.owner.UserID, private.ModelID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "", "missing")
	assert.ErrorIs(t, err, store.ErrModelNotFound)
}

func TestSettingUpsert_PartialAndTouchesModel(t *testing.T) {
	f := newModelFixture(t)
	svc := NewSettingService(f.store, logger.Nop())
	ctx := context.Background()
	model := f.create(t, true)

	orbit := "30deg 60deg 3m"
	first, err := svc.Upsert(ctx, f.owner.UserID, model.ModelID, models.SettingUpdate{CameraOrbit: &orbit})
	require.NoError(t, err)
	assert.Equal(t, orbit, first.CameraOrbit)

	autoplay := true
	second, err := svc.Upsert(ctx, f.owner.UserID, model.ModelID, models.SettingUpdate{Autoplay: &autoplay})
	require.NoError(t, err)
	assert.Equal(t, first.SettingID, second.SettingID, "one settings record per model")
	assert.Equal(t, orbit, second.CameraOrbit, "earlier fields preserved")
	assert.True(t, second.Autoplay)

	touched, err := f.store.Models().FindModelByID(ctx, model.ModelID)
	require.NoError(t, err)
	assert.False(t, touched.UpdatedAt.Before(model.UpdatedAt))
}

func TestSettingUpsert_Guard(t *testing.T) {
	f := newModelFixture(t)
	svc := NewSettingService(f.store, logger.Nop())
	ctx := context.Background()
	model := f.create(t, true)

	orbit := "30deg 60deg 3m"
	_, err := svc.Upsert(ctx, f.other.UserID, model.ModelID, models.SettingUpdate{CameraOrbit: &orbit})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Upsert(ctx, f.admin.UserID, model.ModelID, models.SettingUpdate{CameraOrbit: &orbit})
	assert.ErrorIs(t, err, ErrPermissionDenied, "role grants no access to other users' models")

	_, err = svc.Upsert(ctx, f.owner.UserID, "missing", models.SettingUpdate{CameraOrbit: &orbit})
	assert.ErrorIs(t, err, store.ErrModelNotFound)
}
