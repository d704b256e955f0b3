package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"winecalc/internal/blend"
	applog "winecalc/internal/log"
	"winecalc/models"
)

const blendsPrefix = "/app/api/blends/"

// BlendSettings tune the engine built for every blend request.
type BlendSettings struct {
	TopK          int
	MaxIterations int
	// Seed fixes the random source when non-zero. Requests may override it.
	Seed uint64
}

var blendSettings = BlendSettings{TopK: blend.DefaultTopK, MaxIterations: blend.DefaultMaxIterations}

// ConfigureBlend installs the engine settings used by blend handlers.
func ConfigureBlend(s BlendSettings) {
	blendSettings = s
}

func newEngine(seed uint64) *blend.Engine {
	if seed == 0 {
		seed = blendSettings.Seed
	}
	return blend.NewEngine(blend.Options{
		TopK:          blendSettings.TopK,
		MaxIterations: blendSettings.MaxIterations,
		Rand:          blend.NewRand(seed),
	})
}

type mixRequest struct {
	Allocations []blend.Allocation `json:"allocations"`
}

type targetRequest struct {
	blend.TargetSpec
	DrainTankID string `json:"drainTankId,omitempty"`
}

func (t targetRequest) constraint() blend.Constraint {
	if strings.TrimSpace(t.DrainTankID) == "" {
		return blend.FreeMode{}
	}
	return blend.DrainMode{TankID: t.DrainTankID}
}

type randomRequest struct {
	Mode       blend.RandomMode `json:"mode"`
	TankIDs    []string         `json:"tankIds,omitempty"`
	Iterations int              `json:"iterations,omitempty"`
	ToShow     int              `json:"toShow,omitempty"`
	Seed       uint64           `json:"seed,omitempty"`
}

type blendResponse struct {
	blend.Outcome
	Message string `json:"message,omitempty"`
}

// BlendCalculation runs one of the three blend tabs over the user's cellar:
// POST /app/api/blends/{tanks|mix}, /target or /random.
func BlendCalculation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, blendsPrefix), "/")
	if name == "mix" {
		name = blend.FromTanks.String()
	}
	tab, err := blend.ParseTab(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	req, seed, err := decodeBlendRequest(w, r, tab)
	if err != nil {
		applog.Debug(r.Context(), "invalid blend payload", "tab", tab, "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	outcome, err := runBlend(r.Context(), userID, req, seed)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, blendResponse{Outcome: outcome})
	case errors.Is(err, blend.ErrNoCombinations):
		applog.Debug(r.Context(), "blend search found nothing", "tab", tab)
		outcome.Search = &blend.SearchResult{Combinations: []blend.Combination{}}
		writeJSON(w, http.StatusOK, blendResponse{Outcome: outcome, Message: "no combinations found"})
	case blend.IsValidation(err):
		applog.Debug(r.Context(), "blend request rejected", "tab", tab, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrInvalidDB):
		writeJSONError(w, http.StatusServiceUnavailable, "blending is unavailable because no database connection is configured")
	default:
		applog.Error(r.Context(), "blend calculation failed", "tab", tab, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to compute blend")
	}
}

func decodeBlendRequest(w http.ResponseWriter, r *http.Request, tab blend.Tab) (blend.Request, uint64, error) {
	req := blend.Request{Tab: tab}
	switch tab {
	case blend.FromTanks:
		var payload mixRequest
		if err := decodeJSON(w, r, &payload); err != nil {
			return req, 0, err
		}
		req.Allocations = payload.Allocations
		return req, 0, nil
	case blend.FromTarget:
		var payload targetRequest
		if err := decodeJSON(w, r, &payload); err != nil {
			return req, 0, err
		}
		req.Target = payload.TargetSpec
		req.Constraint = payload.constraint()
		return req, 0, nil
	case blend.Random:
		var payload randomRequest
		if err := decodeJSON(w, r, &payload); err != nil {
			return req, 0, err
		}
		req.Mode = payload.Mode
		req.TankIDs = payload.TankIDs
		req.Iterations = payload.Iterations
		req.ToShow = payload.ToShow
		return req, payload.Seed, nil
	default:
		return req, 0, errors.New("unknown tab")
	}
}

func runBlend(ctx context.Context, userID uint, req blend.Request, seed uint64) (blend.Outcome, error) {
	tanks, err := loadCellarTanks(ctx, userID)
	if err != nil {
		return blend.Outcome{Tab: req.Tab}, err
	}
	cellar := blend.NewCellar(models.Snapshots(tanks))
	applog.Debug(ctx, "running blend", "tab", req.Tab, "tanks", cellar.Len())
	return newEngine(seed).Run(cellar, req)
}
