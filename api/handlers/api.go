package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/lexlink/lexlink-api/models"
	"github.com/stripe/stripe-go/v82"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/api/scheduler"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	law := Lawyer{DB: databases.NewLawyerDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper), SDB: databases.NewSpecializationDatabase(a.dbHelper)}
	spec := Specialization{DB: databases.NewSpecializationDatabase(a.dbHelper)}
	loc := Location{DB: databases.NewLocationDatabase(a.dbHelper)}
	consult := Consultation{
		DB:  databases.NewConsultationDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
		LDB: databases.NewLawyerDatabase(a.dbHelper),
	}
	pay := Payment{
		DB:  databases.NewPaymentDatabase(a.dbHelper),
		LDB: databases.NewLawyerDatabase(a.dbHelper),
		CDB: databases.NewConsultationDatabase(a.dbHelper),
	}
	chat := ChatSession{
		DB:  databases.NewChatSessionDatabase(a.dbHelper),
		PDB: databases.NewPaymentDatabase(a.dbHelper),
		MDB: databases.NewMessageDatabase(a.dbHelper),
	}
	msg := Message{DB: databases.NewMessageDatabase(a.dbHelper), SDB: databases.NewChatSessionDatabase(a.dbHelper)}
	rev := Review{DB: databases.NewReviewDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper)}
	adm := Admin{
		ADB: databases.NewAdminDatabase(a.dbHelper),
		RDB: databases.NewAdminResetDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
		PDB: databases.NewPaymentDatabase(a.dbHelper),
	}

	hub := NewHub()
	ws := ChatSocket{Hub: hub, MDB: databases.NewMessageDatabase(a.dbHelper), SDB: databases.NewChatSessionDatabase(a.dbHelper)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// websocket relay; auth happens via the session-membership check inside the handler
	r.HandleFunc("/ws/chat", ws.ServeWS)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/lawyer", api.Middleware(http.HandlerFunc(law.CreateLawyerHandler))).Methods("POST")
	apiCreate.Handle("/lawyer/{lawyer_id}", api.Middleware(http.HandlerFunc(law.LawyerByIDHandler))).Methods("GET")
	apiCreate.Handle("/lawyer/{lawyer_id}", api.Middleware(http.HandlerFunc(law.UpdateLawyerHandler))).Methods("PUT")
	apiCreate.Handle("/lawyer/{lawyer_id}", api.Middleware(http.HandlerFunc(law.DeleteLawyerHandler))).Methods("DELETE")
	apiCreate.Handle("/lawyer/{lawyer_id}/verify", api.Middleware(http.HandlerFunc(law.VerifyLawyerHandler))).Methods("PUT")
	apiCreate.Handle("/lawyers", api.Middleware(http.HandlerFunc(law.LawyerHandler))).Methods("GET")
	apiCreate.Handle("/lawyers/search", api.Middleware(http.HandlerFunc(law.LawyerSearchHandler))).Methods("GET")

	apiCreate.Handle("/specialization", api.Middleware(http.HandlerFunc(spec.CreateSpecializationHandler))).Methods("POST")
	apiCreate.Handle("/specialization/{specialization_id}", api.Middleware(http.HandlerFunc(spec.SpecializationByIDHandler))).Methods("GET")
	apiCreate.Handle("/specialization/{specialization_id}", api.Middleware(http.HandlerFunc(spec.UpdateSpecializationHandler))).Methods("PUT")
	apiCreate.Handle("/specialization/{specialization_id}", api.Middleware(http.HandlerFunc(spec.DeleteSpecializationHandler))).Methods("DELETE")
	apiCreate.Handle("/specializations", api.Middleware(http.HandlerFunc(spec.SpecializationHandler))).Methods("GET")

	apiCreate.Handle("/location", api.Middleware(http.HandlerFunc(loc.CreateLocationHandler))).Methods("POST")
	apiCreate.Handle("/location/{location_id}", api.Middleware(http.HandlerFunc(loc.LocationByIDHandler))).Methods("GET")
	apiCreate.Handle("/location/{location_id}", api.Middleware(http.HandlerFunc(loc.UpdateLocationHandler))).Methods("PUT")
	apiCreate.Handle("/location/{location_id}", api.Middleware(http.HandlerFunc(loc.DeleteLocationHandler))).Methods("DELETE")
	apiCreate.Handle("/locations", api.Middleware(http.HandlerFunc(loc.LocationHandler))).Methods("GET")

	apiCreate.Handle("/consultation", api.Middleware(http.HandlerFunc(consult.CreateConsultationHandler))).Methods("POST")
	apiCreate.Handle("/consultation/{consultation_id}", api.Middleware(http.HandlerFunc(consult.ConsultationByIDHandler))).Methods("GET")
	apiCreate.Handle("/consultation/{consultation_id}/status", api.Middleware(http.HandlerFunc(consult.UpdateConsultationStatusHandler))).Methods("PUT")
	apiCreate.Handle("/consultation/{consultation_id}", api.Middleware(http.HandlerFunc(consult.DeleteConsultationHandler))).Methods("DELETE")
	apiCreate.Handle("/consultations/client/{client_id}", api.Middleware(http.HandlerFunc(consult.ConsultationsByClientIDHandler))).Methods("GET")
	apiCreate.Handle("/consultations/lawyer/{lawyer_id}", api.Middleware(http.HandlerFunc(consult.ConsultationsByLawyerIDHandler))).Methods("GET")

	apiCreate.Handle("/payment", api.Middleware(http.HandlerFunc(pay.CreatePaymentHandler))).Methods("POST")
	apiCreate.Handle("/payment/{payment_id}", api.Middleware(http.HandlerFunc(pay.PaymentByIDHandler))).Methods("GET")
	apiCreate.Handle("/payment/{payment_id}/status", api.Middleware(http.HandlerFunc(pay.UpdatePaymentStatusHandler))).Methods("PUT")
	apiCreate.Handle("/payments/client/{client_id}", api.Middleware(http.HandlerFunc(pay.PaymentsByClientIDHandler))).Methods("GET")
	apiCreate.Handle("/payment/create-checkout-session", api.Middleware(http.HandlerFunc(pay.CreateCheckoutSessionHandler))).Methods("POST")

	apiCreate.Handle("/chat-session/activate", api.Middleware(http.HandlerFunc(chat.ActivateSessionHandler))).Methods("POST")
	apiCreate.Handle("/chat-session/{session_id}", api.Middleware(http.HandlerFunc(chat.ChatSessionByIDHandler))).Methods("GET")
	apiCreate.Handle("/chat-session/{session_id}/end", api.Middleware(http.HandlerFunc(chat.EndSessionHandler))).Methods("PUT")
	apiCreate.Handle("/chat-session/{session_id}", api.Middleware(http.HandlerFunc(chat.DeleteSessionHandler))).Methods("DELETE")
	apiCreate.Handle("/chat-sessions/user/{user_id}", api.Middleware(http.HandlerFunc(chat.ChatSessionsByUserIDHandler))).Methods("GET")

	apiCreate.Handle("/message", api.Middleware(http.HandlerFunc(msg.CreateMessageHandler))).Methods("POST")
	apiCreate.Handle("/message/{message_id}/read", api.Middleware(http.HandlerFunc(msg.MarkMessageReadHandler))).Methods("PUT")
	apiCreate.Handle("/messages/chat/{chat_session_id}", api.Middleware(http.HandlerFunc(msg.MessagesByChatSessionHandler))).Methods("GET")

	apiCreate.Handle("/review", api.Middleware(http.HandlerFunc(rev.CreateReviewHandler))).Methods("POST")
	apiCreate.Handle("/reviews/lawyer/{lawyer_id}", api.Middleware(http.HandlerFunc(rev.ReviewsByLawyerIDHandler))).Methods("GET")

	apiCreate.Handle("/admin/login", http.HandlerFunc(adm.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/forgot-password", http.HandlerFunc(adm.AdminForgotPasswordHandler)).Methods("POST")
	apiCreate.Handle("/admin/reset-password", http.HandlerFunc(adm.AdminResetPasswordHandler)).Methods("POST")
	apiCreate.Handle("/admin/users/search", api.Middleware(http.HandlerFunc(adm.AdminUserSearchHandler))).Methods("POST")
	apiCreate.Handle("/admin/payments", api.Middleware(http.HandlerFunc(adm.AdminListPaymentsHandler))).Methods("GET")
	apiCreate.Handle("/admin/review/{review_id}", api.Middleware(http.HandlerFunc(rev.DeleteReviewHandler))).Methods("DELETE")

	apiCreate.Handle("/success", http.HandlerFunc(pay.handleSuccessRedirect)).Methods("GET")
	apiCreate.Handle("/cancel", http.HandlerFunc(pay.handleCancelRedirect)).Methods("GET")

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
	zap.S().Info("lexlink-api has connected to the database")

	// initialize stripe
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = stripeKey

	// initialize background jobs
	s, err := scheduler.New(databases.NewConsultationDatabase(a.dbHelper), databases.NewUserDatabase(a.dbHelper))
	if err != nil {
		zap.S().With(err).Error("failed to build scheduler")
		return err
	}
	a.Scheduler = s
	a.Scheduler.Start()

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
