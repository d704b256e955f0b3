package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"winecalc/internal/views/pages"
	"winecalc/models"
)

func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	original := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = original })
}

func seedSavedBlend(t *testing.T, db *gorm.DB, ownerID uint, components ...models.BlendComponent) models.Blend {
	t.Helper()
	saved := models.Blend{OwnerID: ownerID, Name: "Cuvée Réserve", Source: "target", TotalVolume: 400, AlcoholPercent: 12, Components: components}
	if err := db.Create(&saved).Error; err != nil {
		t.Fatalf("failed to seed blend: %v", err)
	}
	return saved
}

func workOrderRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/app/blends/work-order", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestBuildWorkOrderData(t *testing.T) {
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	withFixedNow(t, time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC))

	user := seedUser(t, db, "owner@example.com")
	big := seedTank(t, db, user.ID, "Big", 1000, 11)
	small := seedTank(t, db, user.ID, "Small", 50, 15)
	saved := seedSavedBlend(t, db, user.ID,
		models.BlendComponent{TankID: small.ID, Volume: 100},
		models.BlendComponent{TankID: big.ID, Volume: 300},
	)

	data, err := buildWorkOrderData(t.Context(), saved.ID, user.ID, 800)
	if err != nil {
		t.Fatalf("buildWorkOrderData returned error: %v", err)
	}
	if data.ScaleFactor != 2 || data.BaseVolume != 400 {
		t.Fatalf("unexpected scaling %v from %v", data.ScaleFactor, data.BaseVolume)
	}
	if want := "BLEND-20240302-" + leftPad(saved.ID); data.LotNumber != want {
		t.Fatalf("expected lot %q, got %q", want, data.LotNumber)
	}
	if len(data.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(data.Lines))
	}
	first, second := data.Lines[0], data.Lines[1]
	if first.TankName != "Big" || first.ScaledVolume != 600 || first.Shortfall || first.Order != 1 {
		t.Fatalf("unexpected first line %+v", first)
	}
	if second.TankName != "Small" || second.ScaledVolume != 200 || !second.Shortfall {
		t.Fatalf("expected the small tank to fall short, got %+v", second)
	}
	if !data.HasShortfall() {
		t.Fatal("expected shortfall flag on the work order")
	}
}

func leftPad(id uint) string {
	s := strconv.FormatUint(uint64(id), 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

func TestBuildWorkOrderDataErrors(t *testing.T) {
	if _, err := buildWorkOrderData(t.Context(), 1, 1, 10); err != gorm.ErrInvalidDB {
		t.Fatalf("expected ErrInvalidDB without database, got %v", err)
	}

	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	user := seedUser(t, database, "owner@example.com")

	if _, err := buildWorkOrderData(t.Context(), 99, user.ID, 10); err != errWorkOrderBlendNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	empty := seedSavedBlend(t, database, user.ID)
	if _, err := buildWorkOrderData(t.Context(), empty.ID, user.ID, 10); err != errWorkOrderEmptyComponents {
		t.Fatalf("expected empty composition error, got %v", err)
	}
}

func TestGenerateWorkOrder(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	withFixedNow(t, time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC))

	user := seedUser(t, db, "owner@example.com")
	a := seedTank(t, db, user.ID, "North", 1000, 11)
	b := seedTank(t, db, user.ID, "South", 1000, 13)
	saved := seedSavedBlend(t, db, user.ID,
		models.BlendComponent{TankID: a.ID, Volume: 200},
		models.BlendComponent{TankID: b.ID, Volume: 200},
	)

	form := url.Values{
		"blend_id":      {strconv.FormatUint(uint64(saved.ID), 10)},
		"target_volume": {"5"},
		"unit":          {"hL"},
	}
	req := authenticateRequest(t, sm, workOrderRequest(form), user.ID)
	w := httptest.NewRecorder()
	GenerateWorkOrder(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Cuvée Réserve") {
		t.Fatal("expected blend name in work order")
	}
	if !strings.Contains(body, pages.FormatLiters(250)) {
		t.Fatalf("expected scaled transfer of 250 L in %s", body)
	}
	if strings.Contains(body, `class="shortfall"`) {
		t.Fatal("did not expect a shortfall")
	}
}

func TestGenerateWorkOrderValidation(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	tests := []struct {
		name   string
		form   url.Values
		status int
	}{
		{"missing blend", url.Values{"target_volume": {"10"}}, http.StatusBadRequest},
		{"zero volume", url.Values{"blend_id": {"1"}, "target_volume": {"0"}}, http.StatusBadRequest},
		{"bad unit", url.Values{"blend_id": {"1"}, "target_volume": {"10"}, "unit": {"gal"}}, http.StatusBadRequest},
		{"no database", url.Values{"blend_id": {"1"}, "target_volume": {"10"}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := authenticateRequest(t, sm, workOrderRequest(tt.form), 1)
			w := httptest.NewRecorder()
			GenerateWorkOrder(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}

	w := httptest.NewRecorder()
	GenerateWorkOrder(w, httptest.NewRequest(http.MethodGet, "/app/blends/work-order", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
