package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestLoginEscapesInput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Login("Bad <credentials>", `a"b@example.com`).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Fatal("expected full document")
	}
	if strings.Contains(html, "<credentials>") {
		t.Fatalf("message was not escaped: %s", html)
	}
	if !strings.Contains(html, "a&#34;b@example.com") {
		t.Fatalf("email was not escaped: %s", html)
	}
}

func TestSignupPartialOmitsDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := SignupPartial("", "Ana", "ana@example.com").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<html") {
		t.Fatal("partial should not include the html shell")
	}
	if strings.Contains(buf.String(), `class="alert"`) {
		t.Fatal("empty message should not render an alert")
	}
}

func TestWorkOrderRendersLinesAndShortfall(t *testing.T) {
	t.Parallel()

	ph := 3.45
	data := WorkOrderData{
		BlendName:      "Assemblage A",
		Source:         "target",
		TargetVolume:   1000,
		ScaleFactor:    10,
		AlcoholPercent: 13,
		Readings:       []WorkOrderReading{{Label: "pH", Value: &ph}, {Label: "Total acidity", Unit: "g/L"}},
		LotNumber:      "BLEND-20261016-7",
		RunDate:        time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		Lines: []WorkOrderLine{
			{Order: 1, TankName: "Cuve 1", ScaledVolume: 600, Available: 4200},
			{Order: 2, TankName: "Barrique 7", ScaledVolume: 400, Available: 210, Shortfall: true},
		},
	}

	var buf bytes.Buffer
	if err := WorkOrder(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"BLEND-20261016-7", "16 Oct 2026", "Cuve 1", "6.00 hL", `class="shortfall"`, "3.45", "n/a"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in work order: %s", want, html)
		}
	}
}

func TestFormatters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"liters", FormatLiters(42.34), "42.3 L"},
		{"hectoliters", FormatLiters(250), "2.50 hL"},
		{"missing reading", FormatReading(nil, "g/L"), "n/a"},
		{"zero date", FormatReportDate(time.Time{}), ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCellarListsTanksAndCalculators(t *testing.T) {
	t.Parallel()

	ph := 3.52
	data := CellarData{
		UserName:      "Ana",
		Tanks:         []CellarTankRow{{ID: "t1", Name: "Foudre 2", AlcoholPercent: 13.1, Available: 1800, Capacity: 2500, PH: &ph}},
		TotalLiters:   1800,
		SavedBlends:   3,
		Calculators:   []string{"acid", "so2"},
		SearchTopK:    5,
		MaxIterations: 100,
	}

	var buf bytes.Buffer
	if err := CellarPartial(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Ana&#39;s cellar", "1 tanks holding 18.00 hL", "3 saved blends", `data-tank-id="t1"`, "3.52", "<li>so2</li>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in cellar: %s", want, html)
		}
	}
}

func TestCellarWithoutTanks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Cellar(CellarData{}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "<!DOCTYPE html>") || !strings.Contains(html, "No tanks yet") {
		t.Fatalf("unexpected empty cellar: %s", html)
	}
}
