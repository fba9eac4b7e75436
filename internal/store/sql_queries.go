package store

import (
	"time"

	"github.com/Masterminds/squirrel"

	"modelhub/models"
)

// Column lists shared by the SQL repositories. Order matters: every scan in
// this package follows these lists.
var (
	userColumns = []string{
		"id", "username", "email", "password_hash", "role",
		"avatar_url", "bio", "created_at",
	}
	modelColumns = []string{
		"id", "name", "description", "user_id", "is_public",
		"file_path", "thumbnail_path", "file_size", "file_type",
		"created_at", "updated_at",
	}
	settingColumns = []string{
		"id", "model_id", "camera_orbit", "camera_target", "field_of_view",
		"exposure", "shadow_intensity", "shadow_softness",
		"environment_image", "skybox_image", "animation_name", "autoplay",
		"created_at", "updated_at",
	}
	hotspotColumns = []string{
		"id", "model_id", "name", "position", "normal", "surface",
		"content", "created_at",
	}
)

// buildSelectVisibleModelsQuery selects public models plus, when userID is
// non-empty, the caller's own private models. Models are joined with their
// owner's username and ordered newest first.
func buildSelectVisibleModelsQuery(b squirrel.StatementBuilderType, userID string) (string, []any, error) {
	visible := squirrel.Or{squirrel.Eq{"m.is_public": true}}
	if userID != "" {
		visible = append(visible, squirrel.Eq{"m.user_id": userID})
	}

	return b.Select(prefixColumns("m", modelColumns)...).
		Column("u.username").
		From(models.Model{}.TableName() + " m").
		Join(models.User{}.TableName() + " u ON u.id = m.user_id").
		Where(visible).
		OrderBy("m.created_at DESC").
		ToSql()
}

// buildSelectModelsByOwnerQuery selects every model owned by userID together
// with its hotspot count, most recently updated first.
func buildSelectModelsByOwnerQuery(b squirrel.StatementBuilderType, userID string) (string, []any, error) {
	return b.Select(prefixColumns("m", modelColumns)...).
		Column("u.username").
		Column("(SELECT COUNT(*) FROM " + models.Hotspot{}.TableName() + " h WHERE h.model_id = m.id)").
		From(models.Model{}.TableName() + " m").
		Join(models.User{}.TableName() + " u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("m.updated_at DESC").
		ToSql()
}

// buildUpdateModelQuery builds the partial UPDATE for a model. updated_at is
// always refreshed; other columns are included only when the update sets them.
func buildUpdateModelQuery(b squirrel.StatementBuilderType, modelID string, update models.ModelUpdate, now time.Time) (string, []any, error) {
	q := b.Update(models.Model{}.TableName()).Set("updated_at", now)

	if update.Name != nil {
		q = q.Set("name", *update.Name)
	}
	if update.Description != nil {
		q = q.Set("description", *update.Description)
	}
	if update.IsPublic != nil {
		q = q.Set("is_public", *update.IsPublic)
	}
	if update.ThumbnailPath != nil {
		q = q.Set("thumbnail_path", *update.ThumbnailPath)
	}

	return q.Where(squirrel.Eq{"id": modelID}).ToSql()
}

// buildTouchModelQuery refreshes a model's updated_at marker. Used by hotspot
// and settings mutations, which count as changes to the parent model.
func buildTouchModelQuery(b squirrel.StatementBuilderType, modelID string, now time.Time) (string, []any, error) {
	return b.Update(models.Model{}.TableName()).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": modelID}).
		ToSql()
}

// buildUpdateHotspotQuery builds the partial UPDATE for a hotspot, scoped to
// its parent model so a hotspot can never be reached through a foreign model
// ID.
func buildUpdateHotspotQuery(b squirrel.StatementBuilderType, modelID, hotspotID string, update models.HotspotUpdate) (string, []any, error) {
	q := b.Update(models.Hotspot{}.TableName())

	if update.Name != nil {
		q = q.Set("name", *update.Name)
	}
	if update.Position != nil {
		q = q.Set("position", *update.Position)
	}
	if update.Normal != nil {
		q = q.Set("normal", *update.Normal)
	}
	if update.Surface != nil {
		q = q.Set("surface", *update.Surface)
	}
	if update.Content != nil {
		q = q.Set("content", *update.Content)
	}

	return q.Where(squirrel.Eq{"id": hotspotID, "model_id": modelID}).ToSql()
}

// prefixColumns returns cols with alias + "." prepended to each column.
func prefixColumns(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
