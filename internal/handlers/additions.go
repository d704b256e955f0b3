package handlers

import (
	"errors"
	"net/http"
	"strings"

	"winecalc/internal/additions"
	applog "winecalc/internal/log"
)

const additionsPrefix = "/app/api/additions"

var errAdditionPayload = errors.New("invalid request payload")

// Additions lists the calculators on GET /app/api/additions and runs one on
// POST /app/api/additions/{name}.
func Additions(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, additionsPrefix), "/")
	if name == "" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"calculators": additions.Names()})
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	calc, ok := additions.Lookup(name)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown calculator")
		return
	}

	result, err := calc(func(dst any) error {
		if err := decodeJSON(w, r, dst); err != nil {
			return errors.Join(errAdditionPayload, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAdditionPayload) {
			applog.Debug(r.Context(), "invalid addition payload", "calculator", name, "error", err)
			writeJSONError(w, http.StatusBadRequest, errAdditionPayload.Error())
			return
		}
		applog.Debug(r.Context(), "addition rejected", "calculator", name, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
