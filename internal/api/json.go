package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"routesolve/internal/solver"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// writeCompileProblem maps the solver's error taxonomy onto problem titles.
func writeCompileProblem(w http.ResponseWriter, err error, instance string) {
	title := "Invalid solve request"
	var mte *solver.MatrixTypeError
	var sme *solver.ShapeMismatchError
	var re *solver.RangeError
	switch {
	case errors.As(err, &mte):
		title = "Invalid matrix entry"
	case errors.As(err, &sme):
		title = "Request shape mismatch"
	case errors.As(err, &re):
		title = "Index out of range"
	}
	writeProblem(w, http.StatusBadRequest, title, err.Error(), instance)
}
