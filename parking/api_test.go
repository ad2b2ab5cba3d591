package parking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeServer builds a minimal parking API covering the routes the facade
// tests need. State is deliberately tiny: a logged-in flag via cookie and
// fixed lot data.
func fakeServer(t *testing.T) (*API, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid creds"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "alice"})
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged"})
	})
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err == nil && ck.Value == "alice" {
			writeJSON(w, http.StatusOK, map[string]any{
				"user": map[string]any{"id": 7, "username": "alice", "role": "user"},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
	})
	mux.HandleFunc("GET /api/user/lots", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"lots": []Lot{
				{ID: 1, Name: "Central", PricePerHour: 40, TotalSpots: 10, AvailableSpots: 4},
				{ID: 2, Name: "Airport", PricePerHour: 60, TotalSpots: 20, AvailableSpots: 0},
			},
		})
	})
	mux.HandleFunc("POST /api/user/reservations", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LotID    int64 `json:"lot_id"`
			Quantity int   `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		booked := body.Quantity
		if booked > 4 {
			booked = 4 // contention: only 4 spots left
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"booked": booked, "requested": body.Quantity,
		})
	})
	mux.HandleFunc("DELETE /api/admin/lots/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "1" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "occupied spots"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})
	mux.HandleFunc("GET /api/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, DashboardStats{Lots: 2, TotalSpots: 30, Occupied: 26})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return NewAPI(c), srv
}

func TestLoginThenProfile(t *testing.T) {
	api, _ := fakeServer(t)
	ctx := context.Background()

	// Unauthenticated profile: no error, nil user.
	user, err := api.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user before login, got %+v", user)
	}

	if err := api.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	user, err = api.Profile(ctx)
	if err != nil {
		t.Fatalf("profile after login: %v", err)
	}
	if user == nil || user.Username != "alice" || user.Role != RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLoginRejectionCarriesServerMessage(t *testing.T) {
	api, _ := fakeServer(t)
	err := api.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T", err)
	}
	if apiErr.Message != "invalid creds" || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestUserListLots(t *testing.T) {
	api, _ := fakeServer(t)
	lots, err := api.UserListLots(context.Background())
	if err != nil {
		t.Fatalf("list lots: %v", err)
	}
	if len(lots) != 2 || lots[0].Name != "Central" || lots[1].AvailableSpots != 0 {
		t.Fatalf("unexpected lots: %+v", lots)
	}
}

func TestCreateReservationPartialFulfillment(t *testing.T) {
	api, _ := fakeServer(t)
	result, err := api.UserCreateReservation(context.Background(), 1, 6, "AB12CD3456")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Booked != 4 || result.Requested != 6 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.Partial() {
		t.Fatalf("expected partial fulfillment")
	}
	if result.Booked > result.Requested {
		t.Fatalf("booked exceeds requested: %+v", result)
	}
}

func TestDeleteLotOccupiedRejection(t *testing.T) {
	api, _ := fakeServer(t)
	ctx := context.Background()

	err := api.AdminDeleteLot(ctx, 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "occupied spots" {
		t.Fatalf("want occupied-spots rejection verbatim, got %v", err)
	}

	if err := api.AdminDeleteLot(ctx, 2); err != nil {
		t.Fatalf("delete free lot: %v", err)
	}
}

func TestAdminDashboard(t *testing.T) {
	api, _ := fakeServer(t)
	stats, err := api.AdminDashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.Lots != 2 || stats.TotalSpots != 30 || stats.Occupied != 26 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Available() != 4 {
		t.Fatalf("want 4 available, got %d", stats.Available())
	}
}
