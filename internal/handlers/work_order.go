package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"winecalc/internal/blend"
	applog "winecalc/internal/log"
	"winecalc/internal/views/pages"
	"winecalc/models"
)

var (
	errWorkOrderBlendNotFound   = errors.New("work order: blend not found")
	errWorkOrderInvalidVolume   = errors.New("work order: invalid target volume")
	errWorkOrderEmptyComponents = errors.New("work order: blend has no components")
	nowFunc                     = time.Now
)

// GenerateWorkOrder renders a printable assembly sheet for a saved blend
// scaled to the requested volume.
func GenerateWorkOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Sign in to generate work orders.", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}

	blendID, err := strconv.ParseUint(strings.TrimSpace(r.FormValue("blend_id")), 10, 64)
	if err != nil || blendID == 0 {
		http.Error(w, "Select a saved blend before running the work order.", http.StatusBadRequest)
		return
	}

	unit := blend.Liters
	if raw := strings.TrimSpace(r.FormValue("unit")); raw != "" {
		parsed, err := normaliseUnit("unit", raw)
		if err != nil {
			http.Error(w, "Unknown volume unit.", http.StatusBadRequest)
			return
		}
		unit = blend.Unit(parsed)
	}

	targetVolume, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("target_volume")), 64)
	if err != nil || targetVolume <= 0 {
		http.Error(w, "Provide a positive target volume.", http.StatusBadRequest)
		return
	}
	targetVolume = blend.ToLiters(targetVolume, unit)

	data, err := buildWorkOrderData(r.Context(), uint(blendID), userID, targetVolume)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrInvalidDB):
			http.Error(w, "Work orders are unavailable because no database connection is configured.", http.StatusServiceUnavailable)
		case errors.Is(err, errWorkOrderBlendNotFound):
			http.Error(w, "The selected blend no longer exists.", http.StatusNotFound)
		case errors.Is(err, errWorkOrderInvalidVolume):
			http.Error(w, "The target volume cannot be computed for this blend.", http.StatusBadRequest)
		case errors.Is(err, errWorkOrderEmptyComponents):
			http.Error(w, "The selected blend has no components to assemble.", http.StatusBadRequest)
		default:
			applog.Error(r.Context(), "failed to build work order", "error", err, "blendID", blendID)
			http.Error(w, "We were unable to generate the work order. Please try again.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.WorkOrder(data).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render work order", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func buildWorkOrderData(ctx context.Context, blendID, userID uint, targetVolume float64) (pages.WorkOrderData, error) {
	if database == nil {
		return pages.WorkOrderData{}, gorm.ErrInvalidDB
	}

	var saved models.Blend
	err := database.WithContext(ctx).
		Preload("Components").
		Preload("Components.Tank").
		Where("id = ? AND owner_id = ?", blendID, userID).
		First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pages.WorkOrderData{}, errWorkOrderBlendNotFound
		}
		return pages.WorkOrderData{}, err
	}
	if len(saved.Components) == 0 {
		return pages.WorkOrderData{}, errWorkOrderEmptyComponents
	}

	baseVolume := 0.0
	for _, c := range saved.Components {
		baseVolume += c.Volume
	}
	if baseVolume <= 0 {
		return pages.WorkOrderData{}, errWorkOrderInvalidVolume
	}
	scale := targetVolume / baseVolume
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return pages.WorkOrderData{}, errWorkOrderInvalidVolume
	}

	lines := make([]pages.WorkOrderLine, 0, len(saved.Components))
	for _, c := range saved.Components {
		line := pages.WorkOrderLine{
			TankID:       c.TankID,
			TankName:     c.TankID,
			BaseVolume:   c.Volume,
			ScaledVolume: c.Volume * scale,
		}
		if c.Tank != nil {
			snapshot := c.Tank.Snapshot()
			line.TankName = c.Tank.Name
			line.AlcoholPercent = snapshot.AlcoholPercent
			line.Available = snapshot.AvailableLiters()
		}
		line.Shortfall = line.ScaledVolume > line.Available+1e-9
		lines = append(lines, line)
	}
	sortWorkOrderLines(lines)
	for idx := range lines {
		lines[idx].Order = idx + 1
	}

	result := saved.Result()
	readings := make([]pages.WorkOrderReading, 0, len(blend.Fields))
	for _, f := range blend.Fields {
		readings = append(readings, pages.WorkOrderReading{Label: readingLabel(f), Value: result.Reading(f), Unit: readingUnit(f)})
	}

	runTime := nowFunc().UTC()
	return pages.WorkOrderData{
		BlendName:      saved.Name,
		Source:         saved.Source,
		TargetVolume:   targetVolume,
		BaseVolume:     baseVolume,
		ScaleFactor:    scale,
		AlcoholPercent: result.AlcoholPercent,
		Readings:       readings,
		LotNumber:      fmt.Sprintf("BLEND-%s-%03d", runTime.Format("20060102"), saved.ID),
		RunDate:        runTime,
		Lines:          lines,
	}, nil
}

func sortWorkOrderLines(lines []pages.WorkOrderLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if !almostEqual(lines[i].ScaledVolume, lines[j].ScaledVolume) {
			return lines[i].ScaledVolume > lines[j].ScaledVolume
		}
		return strings.ToLower(lines[i].TankName) < strings.ToLower(lines[j].TankName)
	})
}

func readingLabel(f blend.Field) string {
	switch f {
	case blend.TotalAcidity:
		return "Total acidity"
	case blend.VolatileAcidity:
		return "Volatile acidity"
	case blend.PH:
		return "pH"
	case blend.ResidualSugars:
		return "Residual sugars"
	case blend.FreeSO2:
		return "Free SO2"
	case blend.TotalSO2:
		return "Total SO2"
	default:
		return f.String()
	}
}

func readingUnit(f blend.Field) string {
	switch f {
	case blend.PH:
		return ""
	case blend.FreeSO2, blend.TotalSO2:
		return "mg/L"
	default:
		return "g/L"
	}
}

func almostEqual(a, b float64) bool {
	const epsilon = 1e-6
	return math.Abs(a-b) <= epsilon
}
