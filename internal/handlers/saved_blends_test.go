package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"winecalc/models"
)

func TestSavedBlendLifecycle(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	user := seedUser(t, db, "owner@example.com")
	low := seedTank(t, db, user.ID, "Low", 1000, 10)
	high := seedTank(t, db, user.ID, "High", 1000, 14)
	if err := db.Model(&models.Tank{}).Where("id IN ?", []string{low.ID, high.ID}).Update("ph", 4.0).Error; err != nil {
		t.Fatalf("failed to set pH: %v", err)
	}

	body := fmt.Sprintf(`{"name":"House red","source":"target","target":{"alcohol":11,"ranges":{"pH":{"max":3.8}}},"components":[{"tankId":%q,"volume":300},{"tankId":%q,"volume":100}]}`, low.ID, high.ID)
	req := authenticateRequest(t, sm, jsonRequest(http.MethodPost, "/app/api/blends/saved", body), user.ID)
	w := httptest.NewRecorder()
	SavedBlendResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created savedBlendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode saved blend: %v", err)
	}
	if created.Source != "target" {
		t.Fatalf("unexpected metadata %+v", created)
	}
	// pH 4.0 sits 0.2 above the range at 20 points per unit.
	if math.Abs(created.Score-96) > 1e-6 {
		t.Fatalf("expected server-computed score 96, got %v", created.Score)
	}
	if created.Result.TotalVolume != 400 {
		t.Fatalf("expected 400 L, got %v", created.Result.TotalVolume)
	}
	if math.Abs(created.Result.AlcoholPercent-11) > 1e-9 {
		t.Fatalf("expected 11%% alcohol, got %v", created.Result.AlcoholPercent)
	}
	if len(created.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(created.Components))
	}
	if created.Components[0].TankName != "Low" || created.Components[0].Percent != 75 {
		t.Fatalf("unexpected first component %+v", created.Components[0])
	}

	req = authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app/api/blends/saved", nil), user.ID)
	w = httptest.NewRecorder()
	SavedBlendResource(w, req)
	var listed []savedBlendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected saved blend in list, got %+v", listed)
	}

	path := fmt.Sprintf("/app/api/blends/saved/%d", created.ID)
	req = authenticateRequest(t, sm, httptest.NewRequest(http.MethodDelete, path, nil), user.ID)
	w = httptest.NewRecorder()
	SavedBlendResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	var remaining int64
	if err := db.Model(&models.BlendComponent{}).Count(&remaining).Error; err != nil {
		t.Fatalf("failed to count components: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected components removed with the blend, %d left", remaining)
	}

	req = authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, path, nil), user.ID)
	w = httptest.NewRecorder()
	SavedBlendResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestSavedBlendRejectsInvalidPayloads(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	user := seedUser(t, db, "owner@example.com")
	tank := seedTank(t, db, user.ID, "Low", 1000, 10)
	second := seedTank(t, db, user.ID, "High", 1000, 14)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", fmt.Sprintf(`{"components":[{"tankId":%q,"volume":1},{"tankId":"x","volume":1}]}`, tank.ID)},
		{"single component", fmt.Sprintf(`{"name":"A","components":[{"tankId":%q,"volume":1}]}`, tank.ID)},
		{"unknown tank", fmt.Sprintf(`{"name":"A","components":[{"tankId":%q,"volume":1},{"tankId":"missing","volume":1}]}`, tank.ID)},
		{"unknown source", `{"name":"A","source":"cellar"}`},
		{"client score", fmt.Sprintf(`{"name":"A","score":99,"components":[{"tankId":%q,"volume":1},{"tankId":%q,"volume":1}]}`, tank.ID, tank.ID)},
		{"inverted target range", fmt.Sprintf(`{"name":"A","target":{"alcohol":10,"ranges":{"pH":{"min":3.8,"max":3.2}}},"components":[{"tankId":%q,"volume":1},{"tankId":%q,"volume":1}]}`, tank.ID, second.ID)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := authenticateRequest(t, sm, jsonRequest(http.MethodPost, "/app/api/blends/saved", tt.body), user.ID)
			w := httptest.NewRecorder()
			SavedBlendResource(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSavedBlendScopesToOwner(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	saved := models.Blend{OwnerID: owner.ID, Name: "Private", Source: "tanks", TotalVolume: 10, AlcoholPercent: 12}
	if err := db.Create(&saved).Error; err != nil {
		t.Fatalf("failed to seed blend: %v", err)
	}

	req := authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/api/blends/saved/%d", saved.ID), nil), other.ID)
	w := httptest.NewRecorder()
	SavedBlendResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	req = authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/app/api/blends/saved/abc", nil), owner.ID)
	w = httptest.NewRecorder()
	SavedBlendResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", w.Code)
	}
}
