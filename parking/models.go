package parking

// User is the authenticated identity returned by the profile endpoint.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Roles the server assigns. Anything else is treated as unrecognized.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account is a registered end user as listed on the admin users screen.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Lot is a parking facility with a fixed spot capacity and hourly price.
// AvailableSpots always satisfies 0 <= available <= total on the server;
// the client never adjusts it locally and reloads the list after mutations.
type Lot struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	PricePerHour   float64 `json:"price_per_hour"`
	TotalSpots     int     `json:"total_spots"`
	AvailableSpots int     `json:"available_spots"`
	Address        string  `json:"address,omitempty"`
	PinCode        string  `json:"pin_code,omitempty"`
}

// LotForm carries the fields for creating a lot.
type LotForm struct {
	Name         string  `json:"name"`
	PricePerHour float64 `json:"price_per_hour"`
	TotalSpots   int     `json:"total_spots"`
	Address      string  `json:"address,omitempty"`
	PinCode      string  `json:"pin_code,omitempty"`
}

// LotPatch carries a partial update; nil fields are left as-is server-side.
type LotPatch struct {
	Name         *string  `json:"name,omitempty"`
	PricePerHour *float64 `json:"price_per_hour,omitempty"`
	TotalSpots   *int     `json:"total_spots,omitempty"`
	Address      *string  `json:"address,omitempty"`
	PinCode      *string  `json:"pin_code,omitempty"`
}

// Reservation is one user's occupancy of one spot. Timestamps are kept as
// the server-formatted strings ("YYYY-MM-DD HH:MM:SS"); the date portion is
// everything before the first space. A reservation is active while LeftAt
// is empty; once set, Cost is expected to be populated.
type Reservation struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username,omitempty"`
	Lot           string   `json:"lot,omitempty"`
	LotName       string   `json:"lot_name,omitempty"`
	SpotID        int64    `json:"spot_id"`
	VehicleNumber string   `json:"vehicle_number,omitempty"`
	ParkedAt      string   `json:"parked_at"`
	LeftAt        string   `json:"left_at,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
}

// Active reports whether the reservation is still open.
func (r Reservation) Active() bool { return r.LeftAt == "" }

// LotLabel returns whichever lot name field the server populated. User
// endpoints send "lot", the admin list sends "lot_name".
func (r Reservation) LotLabel() string {
	if r.Lot != "" {
		return r.Lot
	}
	return r.LotName
}

// Export job statuses as the server reports them. Status only ever
// advances server-side; the client polls and displays.
const (
	ExportQueued     = "queued"
	ExportPending    = "pending"
	ExportProcessing = "processing"
	ExportCompleted  = "completed"
)

// ExportJob is an asynchronous server-side task producing a downloadable
// CSV of the user's reservation history.
type ExportJob struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// Done reports whether the job finished and has a file to fetch.
func (j ExportJob) Done() bool {
	return j.Status == ExportCompleted && j.DownloadURL != ""
}

// DashboardStats is the admin dashboard snapshot.
type DashboardStats struct {
	Lots       int `json:"lots"`
	TotalSpots int `json:"total_spots"`
	Occupied   int `json:"occupied"`
}

// Available is the derived free-spot count.
func (d DashboardStats) Available() int { return d.TotalSpots - d.Occupied }

// BookingResult reports how many spots a booking request actually got.
// Booked < Requested means partial fulfillment under contention.
type BookingResult struct {
	Booked    int `json:"booked"`
	Requested int `json:"requested"`
}

// Partial reports whether the booking was only partially fulfilled.
func (b BookingResult) Partial() bool { return b.Booked < b.Requested }
