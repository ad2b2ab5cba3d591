package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"parking-console/config"
	"parking-console/console"
	"parking-console/parking"
)

func main() {
	var (
		configPath  string
		serverURL   string
		downloadDir string
		verbose     bool
	)

	root := &cobra.Command{
		Use:   "parking-console",
		Short: "Interactive terminal client for the parking reservation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}
			if downloadDir != "" {
				cfg.DownloadDir = downloadDir
			}
			if verbose {
				cfg.Verbose = true
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			}))

			client, err := parking.NewClient(cfg.ServerURL, logger)
			if err != nil {
				return err
			}
			return runShell(cmd.Context(), parking.NewAPI(client), cfg)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "parking.toml", "path to TOML config file")
	root.Flags().StringVarP(&serverURL, "server", "s", "", "parking server base URL (overrides config)")
	root.Flags().StringVar(&downloadDir, "download-dir", "", "directory for downloaded CSV exports")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every request")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// adminPanel groups the screens an admin session uses.
type adminPanel struct {
	lots     *console.LotAdmin
	overview *console.AdminOverview
}

// userPanel groups the screens a user session uses.
type userPanel struct {
	booking      *console.BookingScreen
	reservations *console.ReservationList
	exports      *console.ExportScreen
}

func runShell(ctx context.Context, api *parking.API, cfg config.Config) error {
	shell := console.NewShell(api)
	if err := shell.LoadProfile(ctx); err != nil {
		fmt.Printf("Warning: could not reach %s: %v\n", cfg.ServerURL, err)
	}

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Parking Reservation Console!")
	printHelp(shell.Role())

	var admin *adminPanel
	var user *userPanel

	mountPanels := func() {
		admin, user = nil, nil
		switch shell.Role() {
		case console.RoleAdmin:
			admin = &adminPanel{
				lots:     console.NewLotAdmin(api, shell.Notify()),
				overview: console.NewAdminOverview(api),
			}
		case console.RoleUser:
			user = &userPanel{
				booking:      console.NewBookingScreen(api, shell.Notify()),
				reservations: console.NewReservationList(api, shell.Notify()),
				exports:      console.NewExportScreen(api, shell.Notify()),
			}
			user.exports.Interval = cfg.PollDuration()
		case console.RoleUnknown:
			fmt.Println("Role configuration missing. Please contact admin.")
		}
	}
	unmountPanels := func() {
		if user != nil {
			user.exports.StopPolling()
		}
		admin, user = nil, nil
	}
	defer unmountPanels()

	mountPanels()

	for {
		flushToasts(shell.Toasts)
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return nil
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "":
			continue
		case "help":
			printHelp(shell.Role())
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "whoami":
			handleWhoami(shell)
			continue
		}

		switch shell.Role() {
		case console.RoleNone:
			auth := console.NewAuthScreen(api, shell.Notify())
			switch cmd {
			case "login":
				if handleLogin(scanner, auth) {
					_ = shell.LoadProfile(ctx)
					mountPanels()
					printHelp(shell.Role())
				}
			case "register":
				handleRegister(scanner, auth)
			default:
				fmt.Println("Unknown command. Type 'help' for the available commands.")
			}

		case console.RoleAdmin:
			switch cmd {
			case "lots":
				handleAdminLots(ctx, admin.lots)
			case "add lot":
				handleAddLot(ctx, scanner, admin.lots)
			case "edit lot":
				handleEditLot(ctx, scanner, admin.lots)
			case "delete lot":
				handleDeleteLot(ctx, scanner, admin.lots)
			case "users":
				handleUsers(ctx, admin.overview)
			case "reservations":
				handleAdminReservations(ctx, admin.overview)
			case "dashboard":
				handleDashboard(ctx, admin.overview)
			case "logout":
				unmountPanels()
				shell.Logout(ctx)
			default:
				fmt.Println("Unknown command. Type 'help' for the available commands.")
			}

		case console.RoleUser:
			switch cmd {
			case "lots":
				handleUserLots(ctx, user.booking)
			case "book":
				handleBook(ctx, scanner, user.booking)
			case "active":
				handleActive(ctx, user.reservations)
			case "history":
				handleHistory(ctx, user.reservations)
			case "release":
				handleRelease(ctx, scanner, user.reservations)
			case "stats":
				handleStats(ctx, user.reservations)
			case "exports":
				handleExports(ctx, user.exports)
			case "request export":
				user.exports.Request(ctx)
			case "download export":
				handleDownloadExport(ctx, scanner, user.exports, cfg.DownloadDir)
			case "logout":
				unmountPanels()
				shell.Logout(ctx)
			default:
				fmt.Println("Unknown command. Type 'help' for the available commands.")
			}

		default:
			if cmd == "logout" {
				unmountPanels()
				shell.Logout(ctx)
			} else {
				fmt.Println("Role configuration missing. Only 'logout' and 'exit' are available.")
			}
		}
	}
}

// flushToasts prints and clears the pending notifications.
func flushToasts(tc *console.ToastCenter) {
	for _, toast := range tc.Active() {
		fmt.Printf("[%s] %s\n", toast.Variant, toast.Text)
		tc.Dismiss(toast.ID)
	}
}

func printHelp(role console.Role) {
	fmt.Println("Available commands:")
	switch role {
	case console.RoleNone:
		fmt.Println("  Auth: login, register")
	case console.RoleAdmin:
		fmt.Println("  Lots: lots, add lot, edit lot, delete lot")
		fmt.Println("  Overview: users, reservations, dashboard")
		fmt.Println("  Session: whoami, logout")
	case console.RoleUser:
		fmt.Println("  Booking: lots, book, active, history, release")
		fmt.Println("  Reports: stats, exports, request export, download export")
		fmt.Println("  Session: whoami, logout")
	default:
		fmt.Println("  Session: logout")
	}
	fmt.Println("  System: help, exit")
}

func handleWhoami(shell *console.Shell) {
	if shell.User == nil {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("Logged in as %s (id %d, role %s)\n", shell.User.Username, shell.User.ID, shell.User.Role)
}

// ------------------ Auth ------------------

func handleLogin(sc *bufio.Scanner, auth *console.AuthScreen) bool {
	fmt.Print("Username: ")
	if !sc.Scan() {
		return false
	}
	username := strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}

	if !auth.Login(context.Background(), username, password) {
		fmt.Printf("Error: %s\n", auth.Error)
		return false
	}
	fmt.Printf("Welcome back, %s!\n", username)
	return true
}

func handleRegister(sc *bufio.Scanner, auth *console.AuthScreen) {
	auth.SwitchMode(console.ModeRegister)

	fmt.Print("Username: ")
	if !sc.Scan() {
		return
	}
	username := strings.TrimSpace(sc.Text())

	fmt.Print("Email (Gmail only): ")
	if !sc.Scan() {
		return
	}
	email := strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	if !auth.Register(context.Background(), username, password, email) {
		fmt.Printf("Error: %s\n", auth.Error)
		return
	}
	fmt.Println(auth.Success)
}

// ------------------ Admin: lots ------------------

func handleAdminLots(ctx context.Context, screen *console.LotAdmin) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading lots: %v\n", err)
		return
	}
	printLots(screen.Lots, true)
}

func printLots(lots []parking.Lot, withCapacity bool) {
	if len(lots) == 0 {
		fmt.Println("No parking lots.")
		return
	}
	if withCapacity {
		fmt.Printf("%-5s %-25s %10s %8s %10s %-25s %s\n", "ID", "Name", "Price/hr", "Spots", "Available", "Address", "PIN")
		fmt.Println(strings.Repeat("-", 100))
		for _, lot := range lots {
			fmt.Printf("%-5d %-25s %10.2f %8d %10d %-25s %s\n",
				lot.ID, truncateString(lot.Name, 25), lot.PricePerHour,
				lot.TotalSpots, lot.AvailableSpots, truncateString(lot.Address, 25), lot.PinCode)
		}
		return
	}
	fmt.Printf("%-5s %-25s %10s %10s %-25s\n", "ID", "Name", "Price/hr", "Available", "Address")
	fmt.Println(strings.Repeat("-", 80))
	for _, lot := range lots {
		fmt.Printf("%-5d %-25s %10.2f %10d %-25s\n",
			lot.ID, truncateString(lot.Name, 25), lot.PricePerHour,
			lot.AvailableSpots, truncateString(lot.Address, 25))
	}
}

func handleAddLot(ctx context.Context, sc *bufio.Scanner, screen *console.LotAdmin) {
	form, ok := promptLotForm(sc)
	if !ok {
		return
	}
	if !screen.Create(ctx, form) {
		fmt.Printf("Error: %s\n", screen.Error)
	}
}

func promptLotForm(sc *bufio.Scanner) (parking.LotForm, bool) {
	var form parking.LotForm

	fmt.Print("Name: ")
	if !sc.Scan() {
		return form, false
	}
	form.Name = strings.TrimSpace(sc.Text())

	fmt.Print("Price per hour: ")
	if !sc.Scan() {
		return form, false
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(sc.Text()), 64)
	if err != nil {
		fmt.Printf("Invalid price: %s\n", sc.Text())
		return form, false
	}
	form.PricePerHour = price

	fmt.Print("Total spots: ")
	if !sc.Scan() {
		return form, false
	}
	spots, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		fmt.Printf("Invalid spot count: %s\n", sc.Text())
		return form, false
	}
	form.TotalSpots = spots

	fmt.Print("Address (optional): ")
	if !sc.Scan() {
		return form, false
	}
	form.Address = strings.TrimSpace(sc.Text())

	fmt.Print("PIN code (optional): ")
	if !sc.Scan() {
		return form, false
	}
	form.PinCode = strings.TrimSpace(sc.Text())

	return form, true
}

func handleEditLot(ctx context.Context, sc *bufio.Scanner, screen *console.LotAdmin) {
	id, ok := promptID(sc, "Lot ID: ")
	if !ok {
		return
	}

	var patch parking.LotPatch

	fmt.Print("New name (blank to keep): ")
	if !sc.Scan() {
		return
	}
	if v := strings.TrimSpace(sc.Text()); v != "" {
		patch.Name = &v
	}

	fmt.Print("New price per hour (blank to keep): ")
	if !sc.Scan() {
		return
	}
	if v := strings.TrimSpace(sc.Text()); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fmt.Printf("Invalid price: %s\n", v)
			return
		}
		patch.PricePerHour = &price
	}

	fmt.Print("New total spots (blank to keep): ")
	if !sc.Scan() {
		return
	}
	if v := strings.TrimSpace(sc.Text()); v != "" {
		spots, err := strconv.Atoi(v)
		if err != nil {
			fmt.Printf("Invalid spot count: %s\n", v)
			return
		}
		patch.TotalSpots = &spots
	}

	if !screen.Update(ctx, id, patch) {
		fmt.Printf("Error: %s\n", screen.Error)
	}
}

func handleDeleteLot(ctx context.Context, sc *bufio.Scanner, screen *console.LotAdmin) {
	id, ok := promptID(sc, "Lot ID: ")
	if !ok {
		return
	}
	fmt.Print("Delete this lot? All spots must be free. [y/N]: ")
	if !sc.Scan() {
		return
	}
	if answer := strings.ToLower(strings.TrimSpace(sc.Text())); answer != "y" && answer != "yes" {
		fmt.Println("Cancelled.")
		return
	}
	screen.Delete(ctx, id)
}

// ------------------ Admin: overview ------------------

func handleUsers(ctx context.Context, screen *console.AdminOverview) {
	if err := screen.LoadUsers(ctx); err != nil {
		fmt.Printf("Error loading users: %v\n", err)
		return
	}
	if len(screen.Users) == 0 {
		fmt.Println("No registered users.")
		return
	}
	fmt.Printf("%-5s %-25s %-30s\n", "ID", "Username", "Email")
	fmt.Println(strings.Repeat("-", 60))
	for _, u := range screen.Users {
		fmt.Printf("%-5d %-25s %-30s\n", u.ID, truncateString(u.Username, 25), truncateString(u.Email, 30))
	}
}

func handleAdminReservations(ctx context.Context, screen *console.AdminOverview) {
	if err := screen.LoadReservations(ctx); err != nil {
		fmt.Printf("Error loading reservations: %v\n", err)
		return
	}
	printReservations(screen.Reservations, true)
}

func handleDashboard(ctx context.Context, screen *console.AdminOverview) {
	if err := screen.LoadStats(ctx); err != nil {
		fmt.Printf("Error loading dashboard: %v\n", err)
		return
	}
	// Trend fetch is independent; a failure still leaves the snapshot usable.
	if err := screen.LoadReservations(ctx); err != nil {
		fmt.Printf("Warning: could not load reservation trend: %v\n", err)
	}

	stats := screen.Stats
	fmt.Println("Dashboard Overview")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Parking lots: %d\n", stats.Lots)
	max := stats.TotalSpots
	fmt.Printf("%-12s %5d %s\n", "Total spots", stats.TotalSpots, bar(stats.TotalSpots, max))
	fmt.Printf("%-12s %5d %s\n", "Occupied", stats.Occupied, bar(stats.Occupied, max))
	fmt.Printf("%-12s %5d %s\n", "Available", stats.Available(), bar(stats.Available(), max))

	if trend := screen.Trend(); len(trend) > 0 {
		fmt.Println("\nReservation Trends (Last 7 Days)")
		printTrend(trend, false)
	}
}

// ------------------ User: booking ------------------

func handleUserLots(ctx context.Context, screen *console.BookingScreen) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading lots: %v\n", err)
		return
	}
	printLots(screen.Lots, false)
}

func handleBook(ctx context.Context, sc *bufio.Scanner, screen *console.BookingScreen) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading lots: %v\n", err)
		return
	}
	printLots(screen.Lots, false)

	id, ok := promptID(sc, "Lot ID: ")
	if !ok {
		return
	}

	fmt.Print("Vehicle number (e.g., AB12CD3456): ")
	if !sc.Scan() {
		return
	}
	vehicle := strings.TrimSpace(sc.Text())

	fmt.Printf("Number of spots (1-%d): ", parking.MaxBookingQuantity)
	if !sc.Scan() {
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		fmt.Printf("Invalid quantity: %s\n", sc.Text())
		return
	}

	screen.Book(ctx, id, quantity, vehicle)
}

// ------------------ User: reservations ------------------

func handleActive(ctx context.Context, screen *console.ReservationList) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading reservations: %v\n", err)
		return
	}
	active := screen.Active()
	if len(active) == 0 {
		fmt.Println("No active reservations. Book a parking spot to see it here!")
		return
	}
	printReservations(active, false)
}

func handleHistory(ctx context.Context, screen *console.ReservationList) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading reservations: %v\n", err)
		return
	}
	printReservations(screen.Reservations, false)
	fmt.Printf("\nTotal spent: %.2f\n", screen.TotalSpent())
}

func handleRelease(ctx context.Context, sc *bufio.Scanner, screen *console.ReservationList) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading reservations: %v\n", err)
		return
	}
	active := screen.Active()
	if len(active) == 0 {
		fmt.Println("No active reservations to release.")
		return
	}
	printReservations(active, false)

	id, ok := promptID(sc, "Reservation ID: ")
	if !ok {
		return
	}
	screen.Release(ctx, id)
}

func handleStats(ctx context.Context, screen *console.ReservationList) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading reservations: %v\n", err)
		return
	}
	active, completed := parking.StatusBreakdown(screen.Reservations)
	fmt.Println("Your Parking Statistics")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Total bookings: %d\n", len(screen.Reservations))
	fmt.Printf("Active:         %d\n", active)
	fmt.Printf("Completed:      %d\n", completed)
	fmt.Printf("Total spent:    %.2f\n", screen.TotalSpent())
	fmt.Printf("Average cost:   %.2f\n", screen.AverageCost())

	if trend := screen.Trend(); len(trend) > 0 {
		fmt.Println("\nBooking & Spending Trends (Last 7 Days)")
		printTrend(trend, true)
	}
}

// ------------------ User: exports ------------------

func handleExports(ctx context.Context, screen *console.ExportScreen) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading export jobs: %v\n", err)
		return
	}
	// Keep the job list fresh while the user stays on this screen.
	screen.StartPolling(ctx)

	jobs := screen.Jobs()
	if len(jobs) == 0 {
		fmt.Println("No export jobs yet. Use 'request export' to create one.")
		return
	}
	fmt.Printf("%-6s %-12s %-20s %-20s %s\n", "ID", "Status", "Requested", "Completed", "Download")
	fmt.Println(strings.Repeat("-", 90))
	for _, job := range jobs {
		completed := job.CompletedAt
		if completed == "" {
			completed = "-"
		}
		download := "-"
		if job.Done() {
			download = job.DownloadURL
		}
		fmt.Printf("%-6d %-12s %-20s %-20s %s\n", job.ID, job.Status, job.CreatedAt, completed, download)
	}
}

func handleDownloadExport(ctx context.Context, sc *bufio.Scanner, screen *console.ExportScreen, dir string) {
	if err := screen.Load(ctx); err != nil {
		fmt.Printf("Error loading export jobs: %v\n", err)
		return
	}
	id, ok := promptID(sc, "Job ID: ")
	if !ok {
		return
	}
	for _, job := range screen.Jobs() {
		if job.ID == id {
			path, err := screen.Download(ctx, job, dir)
			if err != nil {
				fmt.Printf("Error downloading export: %v\n", err)
				return
			}
			fmt.Printf("Saved %s\n", path)
			return
		}
	}
	fmt.Printf("No export job with ID %d\n", id)
}

// ------------------ Shared rendering ------------------

func printReservations(reservations []parking.Reservation, withUser bool) {
	if len(reservations) == 0 {
		fmt.Println("No reservations.")
		return
	}
	if withUser {
		fmt.Printf("%-5s %-15s %-20s %6s %-12s %-20s %-20s %8s\n",
			"ID", "User", "Lot", "Spot", "Vehicle", "Parked", "Left", "Cost")
		fmt.Println(strings.Repeat("-", 115))
	} else {
		fmt.Printf("%-5s %-20s %6s %-12s %-20s %-20s %8s\n",
			"ID", "Lot", "Spot", "Vehicle", "Parked", "Left", "Cost")
		fmt.Println(strings.Repeat("-", 100))
	}
	for _, r := range reservations {
		left := r.LeftAt
		if left == "" {
			left = "active"
		}
		cost := "-"
		if r.Cost != nil {
			cost = fmt.Sprintf("%.2f", *r.Cost)
		}
		if withUser {
			fmt.Printf("%-5d %-15s %-20s %6d %-12s %-20s %-20s %8s\n",
				r.ID, truncateString(r.Username, 15), truncateString(r.LotLabel(), 20),
				r.SpotID, r.VehicleNumber, r.ParkedAt, left, cost)
		} else {
			fmt.Printf("%-5d %-20s %6d %-12s %-20s %-20s %8s\n",
				r.ID, truncateString(r.LotLabel(), 20), r.SpotID, r.VehicleNumber, r.ParkedAt, left, cost)
		}
	}
}

func printTrend(trend []parking.DayPoint, withCost bool) {
	maxCount := 0
	for _, p := range trend {
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}
	for _, p := range trend {
		if withCost {
			fmt.Printf("%-12s %3d %-20s %8.2f\n", p.Day, p.Count, bar(p.Count, maxCount), p.Cost)
		} else {
			fmt.Printf("%-12s %3d %s\n", p.Day, p.Count, bar(p.Count, maxCount))
		}
	}
}

// bar renders a proportional fixed-width bar for simple console charts.
func bar(value, max int) string {
	const width = 20
	if max <= 0 || value <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func promptID(sc *bufio.Scanner, prompt string) (int64, bool) {
	fmt.Print(prompt)
	if !sc.Scan() {
		return 0, false
	}
	raw := strings.TrimSpace(sc.Text())
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("Invalid ID: %s\n", raw)
		return 0, false
	}
	return id, true
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
