package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// CellarTankRow is one tank line of the cellar overview.
type CellarTankRow struct {
	ID             string
	Name           string
	AlcoholPercent float64
	Available      float64
	Capacity       float64
	PH             *float64
}

// CellarData feeds the overview shown after sign in.
type CellarData struct {
	UserName      string
	Tanks         []CellarTankRow
	TotalLiters   float64
	SavedBlends   int64
	Calculators   []string
	Unavailable   bool
	SearchTopK    int
	MaxIterations int
}

// Cellar renders the overview as a full document.
func Cellar(data CellarData) templ.Component {
	return document("Cellar", CellarPartial(data))
}

// CellarPartial renders the overview body for HTMX swaps.
func CellarPartial(data CellarData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		greeting := "Your cellar"
		if data.UserName != "" {
			greeting = data.UserName + "'s cellar"
		}
		if err := writeAll(w, `<main id="cellar"><h1>`, templ.EscapeString(greeting), `</h1>`); err != nil {
			return err
		}
		if data.Unavailable {
			return writeAll(w, alert("Tank data is unavailable right now."), `</main>`)
		}
		if err := writeAll(w,
			`<p class="summary">`, strconv.Itoa(len(data.Tanks)), ` tanks holding `, FormatLiters(data.TotalLiters),
			`, `, strconv.FormatInt(data.SavedBlends, 10), ` saved blends.</p>`,
			`<p class="engine">Target search keeps the best `, strconv.Itoa(data.SearchTopK),
			` pairs; random runs draw up to `, strconv.Itoa(data.MaxIterations), ` blends.</p>`,
		); err != nil {
			return err
		}

		if len(data.Tanks) == 0 {
			if err := writeAll(w, `<p class="empty">No tanks yet. Add one to start blending.</p>`); err != nil {
				return err
			}
		} else {
			if err := writeAll(w, `<table class="tanks"><thead><tr><th>Tank</th><th>ABV</th><th>pH</th><th>Available</th><th>Capacity</th></tr></thead><tbody>`); err != nil {
				return err
			}
			for _, t := range data.Tanks {
				if err := writeAll(w,
					`<tr data-tank-id="`, templ.EscapeString(t.ID), `"><td>`, templ.EscapeString(t.Name), `</td>`,
					`<td>`, fmt.Sprintf("%.2f %%", t.AlcoholPercent), `</td>`,
					`<td>`, templ.EscapeString(FormatReading(t.PH, "")), `</td>`,
					`<td>`, FormatLiters(t.Available), `</td>`,
					`<td>`, FormatLiters(t.Capacity), `</td></tr>`,
				); err != nil {
					return err
				}
			}
			if err := writeAll(w, `</tbody></table>`); err != nil {
				return err
			}
		}

		if err := writeAll(w, `<nav class="calculators"><h2>Additions</h2><ul>`); err != nil {
			return err
		}
		for _, name := range data.Calculators {
			if err := writeAll(w, `<li>`, templ.EscapeString(name), `</li>`); err != nil {
				return err
			}
		}
		return writeAll(w, `</ul></nav></main>`)
	})
}
