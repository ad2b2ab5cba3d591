package parking

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// API is a thin facade over the Client, one method per remote operation.
// Each method is a pure translation to verb, path, and optional JSON body;
// no caching, no business logic. Server rejections come back as *APIError,
// transport failures propagate unchanged from the Client.
type API struct {
	c *Client
}

// NewAPI wraps an existing Client.
func NewAPI(c *Client) *API { return &API{c: c} }

// APIError is a request the server handled but rejected. Message is the
// server-supplied error string, empty when the response carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return e.Message
}

// reject converts a non-OK response into an *APIError.
func reject(resp Response) error {
	return &APIError{Status: resp.Status, Message: resp.ErrorMessage()}
}

// ------------------ Auth ------------------

// Profile returns the current session's user, or nil when unauthenticated.
func (a *API) Profile(ctx context.Context) (*User, error) {
	resp, err := a.c.Call(ctx, "/api/auth/profile", CallOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, nil
	}
	var body struct {
		User *User `json:"user"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return body.User, nil
}

func (a *API) Login(ctx context.Context, username, password string) error {
	resp, err := a.c.Call(ctx, "/api/auth/login", CallOptions{
		Method: http.MethodPost,
		JSON:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return err
	}
	if !resp.OK {
		return reject(resp)
	}
	return nil
}

func (a *API) Register(ctx context.Context, username, password, email string) error {
	resp, err := a.c.Call(ctx, "/api/auth/register", CallOptions{
		Method: http.MethodPost,
		JSON:   map[string]string{"username": username, "password": password, "email": email},
	})
	if err != nil {
		return err
	}
	if !resp.OK {
		return reject(resp)
	}
	return nil
}

func (a *API) Logout(ctx context.Context) error {
	resp, err := a.c.Call(ctx, "/api/auth/logout", CallOptions{Method: http.MethodPost})
	if err != nil {
		return err
	}
	if !resp.OK {
		return reject(resp)
	}
	return nil
}

// ------------------ Admin ------------------

func (a *API) AdminListLots(ctx context.Context) ([]Lot, error) {
	return a.listLots(ctx, "/api/admin/lots")
}

func (a *API) AdminCreateLot(ctx context.Context, form LotForm) (*Lot, error) {
	resp, err := a.c.Call(ctx, "/api/admin/lots", CallOptions{
		Method: http.MethodPost,
		JSON:   form,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var lot Lot
	if err := resp.Decode(&lot); err != nil {
		return nil, fmt.Errorf("decode lot: %w", err)
	}
	return &lot, nil
}

func (a *API) AdminUpdateLot(ctx context.Context, lotID int64, patch LotPatch) (*Lot, error) {
	resp, err := a.c.Call(ctx, fmt.Sprintf("/api/admin/lots/%d", lotID), CallOptions{
		Method: http.MethodPatch,
		JSON:   patch,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var lot Lot
	if err := resp.Decode(&lot); err != nil {
		return nil, fmt.Errorf("decode lot: %w", err)
	}
	return &lot, nil
}

func (a *API) AdminDeleteLot(ctx context.Context, lotID int64) error {
	resp, err := a.c.Call(ctx, fmt.Sprintf("/api/admin/lots/%d", lotID), CallOptions{
		Method: http.MethodDelete,
	})
	if err != nil {
		return err
	}
	if !resp.OK {
		return reject(resp)
	}
	return nil
}

func (a *API) AdminListUsers(ctx context.Context) ([]Account, error) {
	resp, err := a.c.Call(ctx, "/api/admin/users", CallOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var body struct {
		Users []Account `json:"users"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return body.Users, nil
}

func (a *API) AdminListReservations(ctx context.Context) ([]Reservation, error) {
	return a.listReservations(ctx, "/api/admin/reservations")
}

func (a *API) AdminDashboard(ctx context.Context) (*DashboardStats, error) {
	resp, err := a.c.Call(ctx, "/api/admin/dashboard", CallOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var stats DashboardStats
	if err := resp.Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &stats, nil
}

// ------------------ User ------------------

func (a *API) UserListLots(ctx context.Context) ([]Lot, error) {
	return a.listLots(ctx, "/api/user/lots")
}

func (a *API) UserListReservations(ctx context.Context) ([]Reservation, error) {
	return a.listReservations(ctx, "/api/user/reservations")
}

func (a *API) UserCreateReservation(ctx context.Context, lotID int64, quantity int, vehicleNumber string) (*BookingResult, error) {
	resp, err := a.c.Call(ctx, "/api/user/reservations", CallOptions{
		Method: http.MethodPost,
		JSON: map[string]any{
			"lot_id":         lotID,
			"quantity":       quantity,
			"vehicle_number": vehicleNumber,
		},
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var result BookingResult
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode booking result: %w", err)
	}
	// Older servers omit the counters on single-spot bookings.
	if result.Booked == 0 {
		result.Booked = 1
	}
	if result.Requested == 0 {
		result.Requested = quantity
	}
	return &result, nil
}

func (a *API) UserReleaseReservation(ctx context.Context, reservationID int64) error {
	resp, err := a.c.Call(ctx, fmt.Sprintf("/api/user/reservations/%d/release", reservationID), CallOptions{
		Method: http.MethodPost,
	})
	if err != nil {
		return err
	}
	if !resp.OK {
		return reject(resp)
	}
	return nil
}

func (a *API) UserRequestExport(ctx context.Context) error {
	resp, err := a.c.Call(ctx, "/api/user/exports", CallOptions{Method: http.MethodPost})
	if err != nil {
		return err
	}
	if !resp.OK {
		return reject(resp)
	}
	return nil
}

func (a *API) UserListExports(ctx context.Context) ([]ExportJob, error) {
	resp, err := a.c.Call(ctx, "/api/user/exports", CallOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var body struct {
		Jobs []ExportJob `json:"jobs"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode export jobs: %w", err)
	}
	return body.Jobs, nil
}

// UserDownloadExport streams a completed export's CSV into w. downloadURL
// is the server-relative link from the job listing.
func (a *API) UserDownloadExport(ctx context.Context, downloadURL string, w io.Writer) (int64, error) {
	return a.c.Download(ctx, downloadURL, w)
}

// ------------------ Shared decoders ------------------

func (a *API) listLots(ctx context.Context, path string) ([]Lot, error) {
	resp, err := a.c.Call(ctx, path, CallOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var body struct {
		Lots []Lot `json:"lots"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode lots: %w", err)
	}
	return body.Lots, nil
}

func (a *API) listReservations(ctx context.Context, path string) ([]Reservation, error) {
	resp, err := a.c.Call(ctx, path, CallOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, reject(resp)
	}
	var body struct {
		Reservations []Reservation `json:"reservations"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	return body.Reservations, nil
}
