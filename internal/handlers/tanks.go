package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"winecalc/internal/blend"
	applog "winecalc/internal/log"
	"winecalc/models"
)

const (
	tanksPrefix    = "/app/api/tanks"
	maxTankAlcohol = 20.0
)

var errTankNotFound = errors.New("tanks: tank not found")

type tankRequest struct {
	Name           string   `json:"name"`
	Capacity       float64  `json:"capacity"`
	CapacityUnit   string   `json:"capacityUnit"`
	Volume         float64  `json:"volume"`
	VolumeUnit     string   `json:"volumeUnit"`
	AlcoholPercent float64  `json:"alcoholPercent"`
	TotalAcidity   *float64 `json:"totalAcidity"`
	VolatileAcid   *float64 `json:"volatileAcidity"`
	PH             *float64 `json:"pH"`
	ResidualSugars *float64 `json:"residualSugars"`
	FreeSO2        *float64 `json:"freeSO2"`
	TotalSO2       *float64 `json:"totalSO2"`
	Notes          string   `json:"notes"`
}

// validate normalises units and returns the first problem found.
func (req *tankRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Notes = strings.TrimSpace(req.Notes)
	if req.Name == "" {
		return errors.New("name is required")
	}
	if !(req.Capacity > 0) {
		return errors.New("capacity must be greater than zero")
	}
	if !(req.Volume > 0) {
		return errors.New("volume must be greater than zero")
	}
	if math.IsNaN(req.AlcoholPercent) || req.AlcoholPercent < 0 || req.AlcoholPercent > maxTankAlcohol {
		return fmt.Errorf("alcoholPercent must be between 0 and %g", maxTankAlcohol)
	}

	var err error
	if req.CapacityUnit, err = normaliseUnit("capacityUnit", req.CapacityUnit); err != nil {
		return err
	}
	if req.VolumeUnit, err = normaliseUnit("volumeUnit", req.VolumeUnit); err != nil {
		return err
	}

	readings := []struct {
		name  string
		value *float64
	}{
		{"totalAcidity", req.TotalAcidity},
		{"volatileAcidity", req.VolatileAcid},
		{"residualSugars", req.ResidualSugars},
		{"freeSO2", req.FreeSO2},
		{"totalSO2", req.TotalSO2},
	}
	for _, reading := range readings {
		if reading.value != nil && (math.IsNaN(*reading.value) || *reading.value < 0) {
			return fmt.Errorf("%s must not be negative", reading.name)
		}
	}
	if req.PH != nil && !(*req.PH > 0 && *req.PH <= 14) {
		return errors.New("pH must be between 0 and 14")
	}
	return nil
}

func normaliseUnit(field, value string) (string, error) {
	switch strings.TrimSpace(value) {
	case "", "L", "l":
		return string(blend.Liters), nil
	case "hL", "hl", "HL":
		return string(blend.Hectoliters), nil
	default:
		return "", fmt.Errorf("%s must be L or hL", field)
	}
}

func (req tankRequest) apply(tank *models.Tank) {
	tank.Name = req.Name
	tank.Capacity = req.Capacity
	tank.CapacityUnit = req.CapacityUnit
	tank.Volume = req.Volume
	tank.VolumeUnit = req.VolumeUnit
	tank.AlcoholPercent = req.AlcoholPercent
	tank.TotalAcidity = req.TotalAcidity
	tank.VolatileAcid = req.VolatileAcid
	tank.PH = req.PH
	tank.ResidualSugars = req.ResidualSugars
	tank.FreeSO2 = req.FreeSO2
	tank.TotalSO2 = req.TotalSO2
	tank.Notes = req.Notes
}

// TankResource handles REST-style interactions for the user's tanks.
func TankResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "tank request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		applog.Debug(r.Context(), "tank request missing authenticated user")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, tanksPrefix), "/")
	if id == "" {
		switch r.Method {
		case http.MethodGet:
			listTanks(w, r, userID)
		case http.MethodPost:
			createTank(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showTank(w, r, id, userID)
	case http.MethodPut:
		updateTank(w, r, id, userID)
	case http.MethodDelete:
		deleteTank(w, r, id, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// loadCellarTanks returns the user's tanks ordered by name.
func loadCellarTanks(ctx context.Context, userID uint) ([]models.Tank, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}
	var tanks []models.Tank
	err := database.WithContext(ctx).Where("owner_id = ?", userID).Order("name asc").Find(&tanks).Error
	return tanks, err
}

func loadOwnedTank(ctx context.Context, id string, userID uint) (models.Tank, error) {
	var tank models.Tank
	err := database.WithContext(ctx).Where("id = ? AND owner_id = ?", id, userID).First(&tank).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tank, errTankNotFound
	}
	return tank, err
}

func listTanks(w http.ResponseWriter, r *http.Request, userID uint) {
	tanks, err := loadCellarTanks(r.Context(), userID)
	if err != nil {
		applog.Error(r.Context(), "failed to list tanks", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load tanks")
		return
	}
	if tanks == nil {
		tanks = []models.Tank{}
	}
	writeJSON(w, http.StatusOK, tanks)
}

func showTank(w http.ResponseWriter, r *http.Request, id string, userID uint) {
	tank, err := loadOwnedTank(r.Context(), id, userID)
	if err != nil {
		respondTankLoadError(w, r, err, id)
		return
	}
	writeJSON(w, http.StatusOK, tank)
}

func createTank(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var payload tankRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid tank payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := payload.validate(); err != nil {
		applog.Debug(ctx, "tank rejected", "reason", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	tank := models.Tank{OwnerID: userID}
	payload.apply(&tank)
	if err := database.WithContext(ctx).Create(&tank).Error; err != nil {
		applog.Error(ctx, "failed to create tank", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create tank")
		return
	}

	applog.Info(ctx, "tank created", "tankID", tank.ID, "name", tank.Name)
	writeJSON(w, http.StatusCreated, tank)
}

func updateTank(w http.ResponseWriter, r *http.Request, id string, userID uint) {
	ctx := r.Context()
	tank, err := loadOwnedTank(ctx, id, userID)
	if err != nil {
		respondTankLoadError(w, r, err, id)
		return
	}

	var payload tankRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid tank update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := payload.validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload.apply(&tank)
	if err := database.WithContext(ctx).Save(&tank).Error; err != nil {
		applog.Error(ctx, "failed to update tank", "error", err, "tankID", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to update tank")
		return
	}
	writeJSON(w, http.StatusOK, tank)
}

func deleteTank(w http.ResponseWriter, r *http.Request, id string, userID uint) {
	ctx := r.Context()
	tank, err := loadOwnedTank(ctx, id, userID)
	if err != nil {
		respondTankLoadError(w, r, err, id)
		return
	}
	if err := database.WithContext(ctx).Delete(&tank).Error; err != nil {
		applog.Error(ctx, "failed to delete tank", "error", err, "tankID", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete tank")
		return
	}
	applog.Info(ctx, "tank deleted", "tankID", id)
	w.WriteHeader(http.StatusNoContent)
}

func respondTankLoadError(w http.ResponseWriter, r *http.Request, err error, id string) {
	if errors.Is(err, errTankNotFound) {
		applog.Debug(r.Context(), "tank not found or not owned", "tankID", id)
		writeJSONError(w, http.StatusNotFound, "tank not found")
		return
	}
	applog.Error(r.Context(), "failed to load tank", "error", err, "tankID", id)
	writeJSONError(w, http.StatusInternalServerError, "unable to load tank")
}
