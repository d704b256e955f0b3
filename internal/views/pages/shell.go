package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// document wraps body in the minimal HTML shell shared by full pages.
func document(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+` · WineCalc</title><script src="https://unpkg.com/htmx.org@2.0.4"></script></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// writeAll writes the fragments in order and stops at the first error.
func writeAll(w io.Writer, fragments ...string) error {
	for _, f := range fragments {
		if _, err := io.WriteString(w, f); err != nil {
			return err
		}
	}
	return nil
}

func alert(message string) string {
	if message == "" {
		return ""
	}
	return `<p class="alert" role="alert">` + templ.EscapeString(message) + `</p>`
}
