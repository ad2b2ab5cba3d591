package console

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"parking-console/parking"
)

// lotServer is a tiny stateful lot store so reload-after-mutation can be
// observed end to end.
type lotServer struct {
	mu       sync.Mutex
	lots     map[int64]*parking.Lot
	nextID   int64
	occupied map[int64]bool // lots the server refuses to delete
}

func newLotServer() *lotServer {
	return &lotServer{lots: make(map[int64]*parking.Lot), nextID: 0, occupied: make(map[int64]bool)}
}

func (ls *lotServer) add(lot parking.Lot) int64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.nextID++
	lot.ID = ls.nextID
	ls.lots[lot.ID] = &lot
	return lot.ID
}

func (ls *lotServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		out := make([]parking.Lot, 0, len(ls.lots))
		for id := int64(1); id <= ls.nextID; id++ {
			if lot, ok := ls.lots[id]; ok {
				out = append(out, *lot)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"lots": out})
	})
	mux.HandleFunc("POST /api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		var form parking.LotForm
		json.NewDecoder(r.Body).Decode(&form)
		id := ls.add(parking.Lot{
			Name: form.Name, PricePerHour: form.PricePerHour,
			TotalSpots: form.TotalSpots, AvailableSpots: form.TotalSpots,
		})
		ls.mu.Lock()
		defer ls.mu.Unlock()
		writeJSON(w, http.StatusCreated, ls.lots[id])
	})
	mux.HandleFunc("PATCH /api/admin/lots/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var patch parking.LotPatch
		json.NewDecoder(r.Body).Decode(&patch)
		ls.mu.Lock()
		defer ls.mu.Unlock()
		lot, ok := ls.lots[id]
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if patch.Name != nil {
			lot.Name = *patch.Name
		}
		if patch.PricePerHour != nil {
			lot.PricePerHour = *patch.PricePerHour
		}
		writeJSON(w, http.StatusOK, lot)
	})
	mux.HandleFunc("DELETE /api/admin/lots/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if _, ok := ls.lots[id]; !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if ls.occupied[id] {
			writeError(w, http.StatusBadRequest, "occupied spots")
			return
		}
		delete(ls.lots, id)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})
	return mux
}

func TestLotAdminCreateReloadsList(t *testing.T) {
	srv := newLotServer()
	var spy notifySpy
	screen := NewLotAdmin(newTestAPI(t, srv.handler()), spy.hook())
	ctx := context.Background()

	if !screen.Create(ctx, parking.LotForm{Name: "Central", PricePerHour: 40, TotalSpots: 10}) {
		t.Fatalf("create failed: %q", screen.Error)
	}
	if len(screen.Lots) != 1 || screen.Lots[0].Name != "Central" {
		t.Fatalf("list not reloaded: %+v", screen.Lots)
	}
	if _, variant := spy.last(); variant != VariantSuccess {
		t.Fatalf("want success toast, got %q", variant)
	}
}

func TestLotAdminCreateValidationSkipsNetwork(t *testing.T) {
	srv := newLotServer()
	var spy notifySpy
	screen := NewLotAdmin(newTestAPI(t, srv.handler()), spy.hook())

	if screen.Create(context.Background(), parking.LotForm{Name: "", PricePerHour: 40, TotalSpots: 10}) {
		t.Fatalf("invalid form accepted")
	}
	if screen.Error != "all fields are required" {
		t.Fatalf("unexpected error: %q", screen.Error)
	}
	if len(srv.lots) != 0 {
		t.Fatalf("invalid form reached the server")
	}
}

func TestLotAdminUpdatePriceNoDuplicates(t *testing.T) {
	srv := newLotServer()
	id := srv.add(parking.Lot{Name: "Central", PricePerHour: 40, TotalSpots: 10, AvailableSpots: 10})
	var spy notifySpy
	screen := NewLotAdmin(newTestAPI(t, srv.handler()), spy.hook())
	ctx := context.Background()

	if err := screen.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	newPrice := 55.0
	if !screen.Update(ctx, id, parking.LotPatch{PricePerHour: &newPrice}) {
		t.Fatalf("update failed: %q", screen.Error)
	}
	if len(screen.Lots) != 1 {
		t.Fatalf("duplicate entries after reload: %+v", screen.Lots)
	}
	if screen.Lots[0].PricePerHour != 55 {
		t.Fatalf("reload does not reflect new price: %+v", screen.Lots[0])
	}
}

func TestLotAdminDeleteOccupiedLeavesListUnchanged(t *testing.T) {
	srv := newLotServer()
	id := srv.add(parking.Lot{Name: "Central", PricePerHour: 40, TotalSpots: 10, AvailableSpots: 6})
	srv.occupied[id] = true

	var spy notifySpy
	screen := NewLotAdmin(newTestAPI(t, srv.handler()), spy.hook())
	ctx := context.Background()

	if err := screen.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := len(screen.Lots)

	if screen.Delete(ctx, id) {
		t.Fatalf("occupied delete reported success")
	}
	if text, variant := spy.last(); text != "occupied spots" || variant != VariantDanger {
		t.Fatalf("server rejection not surfaced verbatim: %q %q", text, variant)
	}
	if len(screen.Lots) != before {
		t.Fatalf("list mutated after refused delete")
	}
}

func TestLotAdminLoadFailureKeepsPriorData(t *testing.T) {
	srv := newLotServer()
	srv.add(parking.Lot{Name: "Central", PricePerHour: 40, TotalSpots: 10})

	fail := false
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeError(w, http.StatusInternalServerError, "boom")
			return
		}
		srv.handler().ServeHTTP(w, r)
	})

	var spy notifySpy
	screen := NewLotAdmin(newTestAPI(t, wrapped), spy.hook())
	ctx := context.Background()

	if err := screen.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	fail = true
	if err := screen.Load(ctx); err == nil {
		t.Fatalf("expected load error")
	}
	if len(screen.Lots) != 1 {
		t.Fatalf("prior data discarded on failed load: %+v", screen.Lots)
	}
}

func TestLotAdminIdempotentReload(t *testing.T) {
	srv := newLotServer()
	srv.add(parking.Lot{Name: "Central", PricePerHour: 40, TotalSpots: 10})
	srv.add(parking.Lot{Name: "Airport", PricePerHour: 60, TotalSpots: 20})

	var spy notifySpy
	screen := NewLotAdmin(newTestAPI(t, srv.handler()), spy.hook())
	ctx := context.Background()

	if err := screen.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	first := append([]parking.Lot(nil), screen.Lots...)
	if err := screen.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(first) != len(screen.Lots) {
		t.Fatalf("reload changed list size")
	}
	for i := range first {
		if first[i] != screen.Lots[i] {
			t.Fatalf("reload changed row %d: %+v vs %+v", i, first[i], screen.Lots[i])
		}
	}
}
