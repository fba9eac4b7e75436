package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"modelhub/internal/assets"
	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/internal/utils"
	"modelhub/models"
)

// embedTemplate is the snippet returned by the embed endpoint. It loads the
// model-viewer web component and points it at the model's asset URL with the
// model's saved camera settings applied.
var embedTemplate = template.Must(template.New("embed").Parse(strings.TrimSpace(`
<script type="module" src="https://ajax.googleapis.com/ajax/libs/model-viewer/3.4.0/model-viewer.min.js"></script>
<model-viewer src="{{.Src}}" alt="{{.Alt}}" camera-controls camera-orbit="{{.CameraOrbit}}" camera-target="{{.CameraTarget}}" field-of-view="{{.FieldOfView}}" exposure="{{.Exposure}}" shadow-intensity="{{.ShadowIntensity}}" shadow-softness="{{.ShadowSoftness}}"{{if .AnimationName}} animation-name="{{.AnimationName}}"{{end}}{{if .Autoplay}} autoplay{{end}} style="width: 100%; height: 400px;"></model-viewer>
`)))

// modelService is the concrete implementation of [ModelService]. It owns the
// coupling between model records and their stored binaries: creates store
// the asset before the record, deletes remove the record first and release
// the asset best-effort afterwards.
type modelService struct {
	store  store.Store
	assets assets.Storage
	guard  *guard
	logger *logger.Logger
}

// NewModelService constructs a [ModelService] over the given store and asset
// storage.
func NewModelService(s store.Store, a assets.Storage, log *logger.Logger) ModelService {
	return &modelService{
		store:  s,
		assets: a,
		guard:  newGuard(s, log),
		logger: log,
	}
}

// Create stores the uploaded asset (or adopts the external URL) and persists
// the model record.
func (m *modelService) Create(ctx context.Context, userID string, upload ModelUpload) (models.Model, error) {
	log := logger.FromContext(ctx)

	if userID == "" || upload.Name == "" {
		return models.Model{}, ErrInvalidDataProvided
	}
	hasFile := upload.File != nil
	hasURL := upload.ExternalURL != ""
	if hasFile == hasURL { // exactly one source
		return models.Model{}, ErrInvalidDataProvided
	}
	if hasURL && !assets.IsExternal(upload.ExternalURL) {
		return models.Model{}, ErrInvalidDataProvided
	}

	filePath := upload.ExternalURL
	fileType := ""
	var fileSize int64
	if hasFile {
		locator, err := m.assets.Store(ctx, upload.File, upload.Filename, upload.Size)
		if err != nil {
			log.Err(err).Str("filename", upload.Filename).Msg("asset upload ended with error")
			return models.Model{}, err
		}
		filePath = locator
		fileType = assets.FileType(upload.Filename)
		fileSize = upload.Size
	}

	now := time.Now().UTC()
	model := models.Model{
		ModelID:     utils.NewID(),
		Name:        upload.Name,
		Description: upload.Description,
		UserID:      userID,
		IsPublic:    upload.IsPublic,
		FilePath:    filePath,
		FileSize:    fileSize,
		FileType:    fileType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := m.store.Models().CreateModel(ctx, model)
	if err != nil {
		// the record never existed, do not leak the stored asset
		if hasFile {
			if releaseErr := m.assets.Release(ctx, filePath); releaseErr != nil {
				log.Err(releaseErr).Str("locator", filePath).Msg("error releasing orphaned asset")
			}
		}
		log.Err(err).Str("name", upload.Name).Msg("model creation ended with error")
		return models.Model{}, fmt.Errorf("model creation ended with error: %w", err)
	}

	return created, nil
}

// GetDetail returns the model with settings (defaults filled in) and
// hotspots, enforcing visibility.
func (m *modelService) GetDetail(ctx context.Context, viewerID, modelID string) (models.ModelResponse, error) {
	model, err := m.guard.visible(ctx, viewerID, modelID)
	if err != nil {
		return models.ModelResponse{}, err
	}

	setting, err := m.store.Settings().FindSettingByModelID(ctx, modelID)
	if err != nil && !errors.Is(err, store.ErrSettingNotFound) {
		return models.ModelResponse{}, err
	}
	setting.ModelID = modelID

	hotspots, err := m.store.Hotspots().ListHotspotsByModelID(ctx, modelID)
	if err != nil {
		return models.ModelResponse{}, err
	}

	return models.ModelResponse{
		Model:    model,
		Settings: setting.WithDefaults(),
		Hotspots: hotspots,
	}, nil
}

// ListVisible returns public models plus the viewer's own, newest first.
func (m *modelService) ListVisible(ctx context.Context, viewerID string) ([]models.Model, error) {
	return m.store.Models().ListVisibleModels(ctx, viewerID)
}

// ListOwned returns the user's models with hotspot counts, most recently
// updated first.
func (m *modelService) ListOwned(ctx context.Context, userID string) ([]models.Model, error) {
	if userID == "" {
		return nil, ErrInvalidDataProvided
	}
	return m.store.Models().ListModelsByOwner(ctx, userID)
}

// Update applies a partial metadata update after the ownership check.
func (m *modelService) Update(ctx context.Context, actorID, modelID string, update models.ModelUpdate) (models.Model, error) {
	if update.Empty() {
		return models.Model{}, ErrInvalidDataProvided
	}
	if update.Name != nil && *update.Name == "" {
		return models.Model{}, ErrInvalidDataProvided
	}

	if _, err := m.guard.authorize(ctx, actorID, modelID); err != nil {
		return models.Model{}, err
	}

	return m.store.Models().UpdateModel(ctx, modelID, update)
}

// Delete removes the model with its settings and hotspots, then releases the
// stored asset. Asset release is best-effort: the record cascade has already
// committed, so a failed file delete only leaves an orphaned binary behind.
func (m *modelService) Delete(ctx context.Context, actorID, modelID string) error {
	log := logger.FromContext(ctx)

	model, err := m.guard.authorize(ctx, actorID, modelID)
	if err != nil {
		return err
	}

	if err = m.store.Models().DeleteModelCascade(ctx, modelID); err != nil {
		return err
	}

	if err = m.assets.Release(ctx, model.FilePath); err != nil {
		log.Err(err).Str("locator", model.FilePath).Msg("error releasing deleted model asset")
	}
	if model.ThumbnailPath != "" {
		if err = m.assets.Release(ctx, model.ThumbnailPath); err != nil {
			log.Err(err).Str("locator", model.ThumbnailPath).Msg("error releasing deleted model thumbnail")
		}
	}

	return nil
}

// Embed renders the viewer snippet for a public model with its saved
// settings applied. A private model answers [ErrNotEmbeddable], which reads
// as not-found so the endpoint never reveals that the model exists.
func (m *modelService) Embed(ctx context.Context, modelID string) (string, error) {
	model, err := m.store.Models().FindModelByID(ctx, modelID)
	if err != nil {
		return "", err
	}
	if !model.IsPublic {
		return "", ErrNotEmbeddable
	}

	setting, err := m.store.Settings().FindSettingByModelID(ctx, modelID)
	if err != nil && !errors.Is(err, store.ErrSettingNotFound) {
		return "", err
	}
	setting = setting.WithDefaults()

	src := model.FilePath
	if !assets.IsExternal(src) {
		src = "/" + strings.TrimPrefix(src, "/")
	}

	var b strings.Builder
	err = embedTemplate.Execute(&b, struct {
		Src, Alt string
		models.ModelSetting
	}{Src: src, Alt: model.Name, ModelSetting: setting})
	if err != nil {
		return "", fmt.Errorf("error rendering embed snippet: %w", err)
	}

	return b.String(), nil
}
