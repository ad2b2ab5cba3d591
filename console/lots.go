package console

import (
	"context"

	"parking-console/parking"
)

// LotAdmin is the admin lot-management screen: the lot list plus the
// create/edit form. Every successful mutation triggers a full list reload
// rather than patching local state.
type LotAdmin struct {
	api    *parking.API
	notify Notify

	Lots     []parking.Lot
	Busy     bool // list load in flight
	FormBusy bool // create/update in flight
	Error    string
}

func NewLotAdmin(api *parking.API, notify Notify) *LotAdmin {
	return &LotAdmin{api: api, notify: notify}
}

// Load fetches the lot list. On failure the previous list is kept.
func (s *LotAdmin) Load(ctx context.Context) error {
	s.Busy = true
	defer func() { s.Busy = false }()

	lots, err := s.api.AdminListLots(ctx)
	if err != nil {
		return err
	}
	s.Lots = lots
	return nil
}

// Create validates the form, creates the lot, and reloads the list.
func (s *LotAdmin) Create(ctx context.Context, form parking.LotForm) bool {
	s.FormBusy = true
	defer func() { s.FormBusy = false }()
	s.Error = ""

	if err := parking.ValidateLotForm(form); err != nil {
		s.Error = err.Error()
		return false
	}
	if _, err := s.api.AdminCreateLot(ctx, form); err != nil {
		s.Error = actionError(err, "Failed to create lot")
		return false
	}
	s.notify("Parking lot created successfully", VariantSuccess)
	_ = s.Load(ctx)
	return true
}

// Update applies a partial update and reloads the list.
func (s *LotAdmin) Update(ctx context.Context, lotID int64, patch parking.LotPatch) bool {
	s.FormBusy = true
	defer func() { s.FormBusy = false }()
	s.Error = ""

	if _, err := s.api.AdminUpdateLot(ctx, lotID, patch); err != nil {
		s.Error = actionError(err, "Failed to update lot")
		return false
	}
	s.notify("Parking lot updated successfully", VariantSuccess)
	_ = s.Load(ctx)
	return true
}

// Delete removes a lot. The server refuses while occupied spots exist and
// that rejection is surfaced verbatim; the list is only reloaded on
// success, so a refused delete leaves it untouched.
func (s *LotAdmin) Delete(ctx context.Context, lotID int64) bool {
	if err := s.api.AdminDeleteLot(ctx, lotID); err != nil {
		s.notify(actionError(err, "Failed to delete lot"), VariantDanger)
		return false
	}
	s.notify("Lot deleted successfully", VariantSuccess)
	_ = s.Load(ctx)
	return true
}

// Find returns the loaded lot with the given id, if present.
func (s *LotAdmin) Find(lotID int64) *parking.Lot {
	for i := range s.Lots {
		if s.Lots[i].ID == lotID {
			return &s.Lots[i]
		}
	}
	return nil
}
