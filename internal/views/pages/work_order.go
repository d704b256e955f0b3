package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// WorkOrderLine is one tank transfer of a blend work order.
type WorkOrderLine struct {
	Order          int
	TankName       string
	TankID         string
	AlcoholPercent float64
	BaseVolume     float64
	ScaledVolume   float64
	Available      float64
	Shortfall      bool
}

// WorkOrderReading is a blended value shown in the summary table.
type WorkOrderReading struct {
	Label string
	Value *float64
	Unit  string
}

// WorkOrderData is everything the cellar crew needs to assemble a saved blend.
type WorkOrderData struct {
	BlendName      string
	Source         string
	TargetVolume   float64
	BaseVolume     float64
	ScaleFactor    float64
	AlcoholPercent float64
	Readings       []WorkOrderReading
	LotNumber      string
	RunDate        time.Time
	Lines          []WorkOrderLine
}

// HasShortfall reports whether any tank lacks the stock its line asks for.
func (d WorkOrderData) HasShortfall() bool {
	for _, l := range d.Lines {
		if l.Shortfall {
			return true
		}
	}
	return false
}

// FormatLiters renders a volume in liters with one decimal, switching to
// hectoliters from 100 L up.
func FormatLiters(liters float64) string {
	if liters >= 100 {
		return fmt.Sprintf("%.2f hL", liters/100)
	}
	return fmt.Sprintf("%.1f L", liters)
}

// FormatReading renders an optional reading, or n/a when unknown.
func FormatReading(value *float64, unit string) string {
	if value == nil {
		return "n/a"
	}
	s := strconv.FormatFloat(*value, 'f', 2, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// FormatReportDate renders the supplied time using a production-friendly layout.
func FormatReportDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format("02 Jan 2006")
}

// WorkOrder renders the printable blend work order.
func WorkOrder(data WorkOrderData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := writeAll(w,
			`<article class="work-order"><header><h1>Blend work order</h1>`,
			`<dl><dt>Blend</dt><dd>`, templ.EscapeString(data.BlendName), `</dd>`,
			`<dt>Lot</dt><dd>`, templ.EscapeString(data.LotNumber), `</dd>`,
			`<dt>Date</dt><dd>`, templ.EscapeString(FormatReportDate(data.RunDate)), `</dd>`,
			`<dt>Source</dt><dd>`, templ.EscapeString(data.Source), `</dd>`,
			`<dt>Target volume</dt><dd>`, FormatLiters(data.TargetVolume), `</dd>`,
			`<dt>Scale factor</dt><dd>`, fmt.Sprintf("%.3f", data.ScaleFactor), `</dd></dl></header>`,
		); err != nil {
			return err
		}
		if data.HasShortfall() {
			if err := writeAll(w, alert("One or more tanks do not hold enough wine for this volume.")); err != nil {
				return err
			}
		}

		if err := writeAll(w, `<table class="lines"><thead><tr><th>#</th><th>Tank</th><th>ABV</th><th>Transfer</th><th>In tank</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, line := range data.Lines {
			class := ""
			if line.Shortfall {
				class = ` class="shortfall"`
			}
			if err := writeAll(w,
				`<tr`, class, `><td>`, strconv.Itoa(line.Order), `</td>`,
				`<td>`, templ.EscapeString(line.TankName), `</td>`,
				`<td>`, fmt.Sprintf("%.2f %%", line.AlcoholPercent), `</td>`,
				`<td>`, FormatLiters(line.ScaledVolume), `</td>`,
				`<td>`, FormatLiters(line.Available), `</td></tr>`,
			); err != nil {
				return err
			}
		}
		if err := writeAll(w, `</tbody></table><table class="chemistry"><tbody>`,
			`<tr><th>Alcohol</th><td>`, fmt.Sprintf("%.2f %% vol", data.AlcoholPercent), `</td></tr>`); err != nil {
			return err
		}
		for _, r := range data.Readings {
			if err := writeAll(w, `<tr><th>`, templ.EscapeString(r.Label), `</th><td>`, templ.EscapeString(FormatReading(r.Value, r.Unit)), `</td></tr>`); err != nil {
				return err
			}
		}
		return writeAll(w, `</tbody></table></article>`)
	})
	return document("Work order "+data.LotNumber, body)
}
