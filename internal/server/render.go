package server

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// render executes a named template into a buffer first so a template error
// can still produce a clean 500 instead of a half-written page.
func (s Server) render(w http.ResponseWriter, statusCode int, name string, data any) {
	var buf bytes.Buffer
	if err := s.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.Logger.Errorf("render: Error executing template: %s, err: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		s.Logger.Errorf("render: Error writing response for template: %s, err: %v", name, err)
	}
}

type errorData struct {
	Status  int
	Message string
}

func (s Server) renderError(w http.ResponseWriter, statusCode int, message string) {
	s.render(w, statusCode, "error", errorData{Status: statusCode, Message: message})
}

func (s Server) writeJsonResponse(w http.ResponseWriter, response any, statusCode int) {
	if resp, err := json.Marshal(response); err != nil {
		s.Logger.Errorf("Error encoding response: %+v, err: %v", response, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(statusCode)
		if _, err = w.Write(resp); err != nil {
			s.Logger.Errorf("Error writing JSON response: %s, err: %v", resp, err)
		}
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
