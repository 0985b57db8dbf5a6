package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/stripe/stripe-go/v82"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/societyhq/society-api/api"
	"github.com/societyhq/society-api/config"
	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Notifier *SocketNotifier
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for admin middleware
	m := api.MiddlewareDB{ADB: databases.NewAdminDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	a.Notifier = NewSocketNotifier()

	r := mux.NewRouter()

	v := Visitor{
		DB:       databases.NewVisitorDatabase(a.dbHelper),
		MDB:      databases.NewMemberDatabase(a.dbHelper),
		GDB:      databases.NewGuardDatabase(a.dbHelper),
		Notifier: a.Notifier,
		Mailer:   SendgridMailer{},
	}
	mem := Member{DB: databases.NewMemberDatabase(a.dbHelper), ADB: databases.NewAdminDatabase(a.dbHelper)}
	g := Guard{DB: databases.NewGuardDatabase(a.dbHelper)}
	am := Amenity{DB: databases.NewAmenityDatabase(a.dbHelper)}
	bk := Booking{
		DB:  databases.NewBookingDatabase(a.dbHelper),
		ADB: databases.NewAmenityDatabase(a.dbHelper),
		MDB: databases.NewMemberDatabase(a.dbHelper),
	}
	bill := Bill{DB: databases.NewBillDatabase(a.dbHelper)}
	cm := Complaint{DB: databases.NewComplaintDatabase(a.dbHelper), MDB: databases.NewMemberDatabase(a.dbHelper)}
	an := Announcement{DB: databases.NewAnnouncementDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// guard stations subscribe to gate rooms over socket.io
	r.Handle("/socket.io/", a.Notifier.Handler())

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	// visitor pre-approval workflow
	apiCreate.Handle("/visitors", api.MemberAuth(http.HandlerFunc(v.VisitorCreateHandler))).Methods("POST")
	apiCreate.Handle("/visitors/guard-list", http.HandlerFunc(v.GuardVisitorListHandler)).Methods("POST")
	apiCreate.Handle("/visitors/approve", http.HandlerFunc(v.VisitorApproveHandler)).Methods("POST")
	apiCreate.Handle("/visitors/admin/{admin_id}", api.Middleware(http.HandlerFunc(v.AdminVisitorListHandler))).Methods("GET")
	apiCreate.Handle("/visitors/{visitor_id}/status", api.Middleware(http.HandlerFunc(v.VisitorStatusUpdateHandler))).Methods("PATCH")
	apiCreate.Handle("/visitors/{visitor_id}", api.Middleware(http.HandlerFunc(v.VisitorDeleteHandler))).Methods("DELETE")

	// members
	apiCreate.Handle("/members/login", http.HandlerFunc(mem.MemberLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/{admin_id}/members", api.Middleware(http.HandlerFunc(mem.MemberCreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/{admin_id}/members", api.Middleware(http.HandlerFunc(mem.MembersByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/members/{member_id}", api.Middleware(http.HandlerFunc(mem.MemberDeleteHandler))).Methods("DELETE")

	// gate guards
	apiCreate.Handle("/admin/{admin_id}/guards", api.Middleware(http.HandlerFunc(g.GuardCreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/{admin_id}/guards", api.Middleware(http.HandlerFunc(g.GuardsByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/guards/{guard_id}", api.Middleware(http.HandlerFunc(g.GuardDeleteHandler))).Methods("DELETE")

	// amenities and bookings
	apiCreate.Handle("/admin/{admin_id}/amenities", api.Middleware(http.HandlerFunc(am.AmenityCreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/{admin_id}/amenities", api.Middleware(http.HandlerFunc(am.AmenitiesByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/amenities/{admin_id}", api.MemberAuth(http.HandlerFunc(am.AmenitiesByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/amenities/{amenity_id}", api.Middleware(http.HandlerFunc(am.AmenityDeleteHandler))).Methods("DELETE")
	apiCreate.Handle("/amenities/{amenity_id}/bookings", api.Middleware(http.HandlerFunc(bk.BookingsByAmenityHandler))).Methods("GET")
	apiCreate.Handle("/bookings", api.MemberAuth(http.HandlerFunc(bk.BookingCreateHandler))).Methods("POST")
	apiCreate.Handle("/bookings", api.MemberAuth(http.HandlerFunc(bk.BookingsByMemberHandler))).Methods("GET")
	apiCreate.Handle("/bookings/{booking_id}/cancel", api.MemberAuth(http.HandlerFunc(bk.BookingCancelHandler))).Methods("PATCH")

	// bills
	apiCreate.Handle("/admin/{admin_id}/bills", api.Middleware(http.HandlerFunc(bill.BillCreateHandler))).Methods("POST")
	apiCreate.Handle("/bills", api.MemberAuth(http.HandlerFunc(bill.BillsByMemberHandler))).Methods("GET")
	apiCreate.Handle("/bills/{bill_id}/pay", api.MemberAuth(http.HandlerFunc(bill.BillPayHandler))).Methods("POST")
	apiCreate.Handle("/bills/{bill_id}/paid", api.Middleware(http.HandlerFunc(bill.BillMarkPaidHandler))).Methods("PATCH")

	// complaints
	apiCreate.Handle("/complaints", api.MemberAuth(http.HandlerFunc(cm.ComplaintCreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/{admin_id}/complaints", api.Middleware(http.HandlerFunc(cm.ComplaintsByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/complaints/{complaint_id}/status", api.Middleware(http.HandlerFunc(cm.ComplaintStatusUpdateHandler))).Methods("PATCH")

	// announcements
	apiCreate.Handle("/admin/{admin_id}/announcements", api.Middleware(http.HandlerFunc(an.AnnouncementCreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/{admin_id}/announcements", api.Middleware(http.HandlerFunc(an.AnnouncementsByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/announcements/{admin_id}", api.MemberAuth(http.HandlerFunc(an.AnnouncementsByAdminIDHandler))).Methods("GET")
	apiCreate.Handle("/announcements/{announcement_id}", api.Middleware(http.HandlerFunc(an.AnnouncementDeleteHandler))).Methods("DELETE")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	apiCreate.Handle("/success", http.HandlerFunc(bill.handleSuccessRedirect)).Methods("GET")
	apiCreate.Handle("/cancel", http.HandlerFunc(bill.handleCancelRedirect)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("society-api has connected to the database")

	if err := databases.EnsureHeadAdmin(a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to bootstrap head admin")
		return err
	}

	// initialize stripe
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = stripeKey

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

// DB exposes the database helper for wiring background jobs in main
func (a *App) DB() databases.DatabaseHelper {
	return a.dbHelper
}
