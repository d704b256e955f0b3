package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"winecalc/internal/blend"
	applog "winecalc/internal/log"
	"winecalc/models"
)

const savedBlendsPrefix = "/app/api/blends/saved"

var errSavedBlendNotFound = errors.New("blends: saved blend not found")

type savedBlendRequest struct {
	Name       string             `json:"name"`
	Source     blend.Tab          `json:"source"`
	Notes      string             `json:"notes"`
	Components []blend.Allocation `json:"components"`
	// Target, when set, scores the blend against its ranges. The score is
	// always computed here, never taken from the client.
	Target *blend.TargetSpec `json:"target,omitempty"`
}

type savedComponentResponse struct {
	ID       uint    `json:"id"`
	TankID   string  `json:"tank_id"`
	TankName string  `json:"tank_name,omitempty"`
	Volume   float64 `json:"volume"`
	Percent  float64 `json:"percent"`
}

type savedBlendResponse struct {
	ID         uint                     `json:"id"`
	Name       string                   `json:"name"`
	Source     string                   `json:"source"`
	Score      float64                  `json:"score"`
	Notes      string                   `json:"notes"`
	Result     blend.Result             `json:"result"`
	Components []savedComponentResponse `json:"components"`
	CreatedAt  time.Time                `json:"created_at"`
}

// SavedBlendResource lists, stores, shows and deletes the user's saved blends.
func SavedBlendResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "saved blend request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, savedBlendsPrefix), "/")
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listSavedBlends(w, r, userID)
		case http.MethodPost:
			createSavedBlend(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid saved blend identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}
	blendID := uint(idValue)

	switch r.Method {
	case http.MethodGet:
		saved, err := loadSavedBlend(r, blendID, userID)
		if err != nil {
			respondSavedBlendError(w, r, err, blendID)
			return
		}
		writeJSON(w, http.StatusOK, projectSavedBlend(saved))
	case http.MethodDelete:
		deleteSavedBlend(w, r, blendID, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func loadSavedBlend(r *http.Request, blendID, userID uint) (models.Blend, error) {
	var saved models.Blend
	err := database.WithContext(r.Context()).
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Components.Tank").
		Where("id = ? AND owner_id = ?", blendID, userID).
		First(&saved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return saved, errSavedBlendNotFound
	}
	return saved, err
}

func listSavedBlends(w http.ResponseWriter, r *http.Request, userID uint) {
	var saved []models.Blend
	if err := database.WithContext(r.Context()).
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Components.Tank").
		Where("owner_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&saved).Error; err != nil {
		applog.Error(r.Context(), "failed to list saved blends", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load saved blends")
		return
	}

	responses := make([]savedBlendResponse, 0, len(saved))
	for _, b := range saved {
		responses = append(responses, projectSavedBlend(b))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createSavedBlend(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var payload savedBlendRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid saved blend payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	tanks, err := loadCellarTanks(ctx, userID)
	if err != nil {
		applog.Error(ctx, "failed to load cellar for saved blend", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load tanks")
		return
	}
	var score float64
	engine := newEngine(0)
	components, result, err := engine.MixAllocations(blend.NewCellar(models.Snapshots(tanks)), payload.Components)
	if err == nil {
		score, err = engine.Rate(components, result, payload.Target)
	}
	if err != nil {
		if blend.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.Error(ctx, "failed to mix saved blend", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to compute blend")
		return
	}

	saved := models.Blend{
		OwnerID: userID,
		Name:    payload.Name,
		Source:  payload.Source.String(),
		Score:   score,
		Notes:   strings.TrimSpace(payload.Notes),
	}
	saved.ApplyResult(result)
	for _, c := range components {
		saved.Components = append(saved.Components, models.BlendComponent{TankID: c.Tank.ID, Volume: c.BlendVolume})
	}

	if err := database.WithContext(ctx).Create(&saved).Error; err != nil {
		applog.Error(ctx, "failed to save blend", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to save blend")
		return
	}

	reloaded, err := loadSavedBlend(r, saved.ID, userID)
	if err != nil {
		respondSavedBlendError(w, r, err, saved.ID)
		return
	}
	applog.Info(ctx, "blend saved", "blendID", saved.ID, "components", len(saved.Components))
	writeJSON(w, http.StatusCreated, projectSavedBlend(reloaded))
}

func deleteSavedBlend(w http.ResponseWriter, r *http.Request, blendID, userID uint) {
	ctx := r.Context()
	saved, err := loadSavedBlend(r, blendID, userID)
	if err != nil {
		respondSavedBlendError(w, r, err, blendID)
		return
	}

	err = database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blend_id = ?", saved.ID).Delete(&models.BlendComponent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&saved).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete saved blend", "error", err, "blendID", blendID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete saved blend")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondSavedBlendError(w http.ResponseWriter, r *http.Request, err error, blendID uint) {
	if errors.Is(err, errSavedBlendNotFound) {
		applog.Debug(r.Context(), "saved blend not found or not owned", "blendID", blendID)
		writeJSONError(w, http.StatusNotFound, "saved blend not found")
		return
	}
	applog.Error(r.Context(), "failed to load saved blend", "error", err, "blendID", blendID)
	writeJSONError(w, http.StatusInternalServerError, "unable to load saved blend")
}

func projectSavedBlend(b models.Blend) savedBlendResponse {
	result := b.Result()
	components := make([]savedComponentResponse, 0, len(b.Components))
	for _, c := range b.Components {
		resp := savedComponentResponse{ID: c.ID, TankID: c.TankID, Volume: c.Volume}
		if c.Tank != nil {
			resp.TankName = c.Tank.Name
		}
		if result.TotalVolume > 0 {
			resp.Percent = c.Volume / result.TotalVolume * 100
		}
		components = append(components, resp)
	}
	return savedBlendResponse{
		ID:         b.ID,
		Name:       b.Name,
		Source:     b.Source,
		Score:      b.Score,
		Notes:      b.Notes,
		Result:     result,
		Components: components,
		CreatedAt:  b.CreatedAt,
	}
}
