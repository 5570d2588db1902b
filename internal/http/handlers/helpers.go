package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// queryInt parses a pagination parameter; anything unparsable is treated
// as unset rather than an error.
func queryInt(values map[string][]string, key string) int {
	list := values[key]
	if len(list) == 0 {
		return 0
	}
	n, err := strconv.Atoi(list[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func queryString(values map[string][]string, key string) *string {
	list := values[key]
	if len(list) == 0 || list[0] == "" {
		return nil
	}
	return &list[0]
}
