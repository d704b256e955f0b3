package handlers

import (
	"net/http"

	templpkg "github.com/a-h/templ"

	"winecalc/internal/additions"
	applog "winecalc/internal/log"
	"winecalc/internal/views/pages"
	"winecalc/models"
)

// Cellar renders the signed-in overview: tanks on hand, saved blends and the
// available addition calculators.
func Cellar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data := pages.CellarData{
		Calculators:   additions.Names(),
		SearchTopK:    blendSettings.TopK,
		MaxIterations: blendSettings.MaxIterations,
	}
	owner, ok := sessionOwner(r)
	data.UserName = owner.Name
	if !ok || database == nil {
		data.Unavailable = true
	} else {
		tanks, err := loadCellarTanks(r.Context(), owner.ID)
		if err == nil {
			err = database.WithContext(r.Context()).Model(&models.Blend{}).Where("owner_id = ?", owner.ID).Count(&data.SavedBlends).Error
		}
		if err != nil {
			applog.Error(r.Context(), "failed to load cellar overview", "error", err)
			data.Unavailable = true
		}
		for _, t := range tanks {
			snapshot := t.Snapshot()
			data.TotalLiters += snapshot.AvailableLiters()
			data.Tanks = append(data.Tanks, pages.CellarTankRow{
				ID:             t.ID,
				Name:           t.Name,
				AlcoholPercent: t.AlcoholPercent,
				Available:      snapshot.AvailableLiters(),
				Capacity:       snapshot.CapacityLiters(),
				PH:             t.PH,
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var component templpkg.Component
	if isHTMX(r) {
		component = pages.CellarPartial(data)
	} else {
		component = pages.Cellar(data)
	}

	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
