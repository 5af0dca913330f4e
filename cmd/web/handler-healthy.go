package main

import (
	"fmt"
	"net/http"
)

// healthy responds with a JSON object indicating that the server is healthy and how many cases it serves.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = fmt.Fprintf(w, `{"status":"ok","cases":%d}`, len(app.cases.List()))
}
