package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// problemTypePrefix namespaces problem types by HTTP status, e.g.
// urn:ridefleet:problem:unprocessable-entity for a rejected assignment.
const problemTypePrefix = "urn:ridefleet:problem:"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     problemType(status),
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

func problemType(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "about:blank"
	}
	return problemTypePrefix + strings.ToLower(strings.ReplaceAll(text, " ", "-"))
}
