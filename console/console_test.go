package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parking-console/parking"
)

// notifySpy records the toasts a screen emits upward.
type notifySpy struct {
	texts    []string
	variants []string
}

func (n *notifySpy) hook() Notify {
	return func(text, variant string) {
		n.texts = append(n.texts, text)
		n.variants = append(n.variants, variant)
	}
}

func (n *notifySpy) last() (text, variant string) {
	if len(n.texts) == 0 {
		return "", ""
	}
	return n.texts[len(n.texts)-1], n.variants[len(n.variants)-1]
}

// newTestAPI builds an API facade talking to the given handler.
func newTestAPI(t *testing.T, handler http.Handler) *parking.API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := parking.NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return parking.NewAPI(c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
