package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/chat"
	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/auth"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type Server struct{ mux *chi.Mux }

func New() *Server {
	m := chi.NewRouter()

	// Middlewares must be registered before any routes.
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

// Handlers bundles the application services the HTTP layer exposes.
type Handlers struct {
	Auth          *app.AuthService
	Users         *app.UserService
	Professionals *app.ProfessionalService
	Requests      *app.RequestService
	Payments      *app.PaymentService
	Reviews       *app.ReviewService
	Chats         *app.ChatService
	Notifications *app.NotificationService
	Hub           *chat.Hub
	Stats         StatsSource

	// Flood control for the websocket endpoint, in message:send events
	// per second and burst.
	ChatMsgRate  int
	ChatMsgBurst int
}

// StatsSource is the read side used by the admin stats endpoint.
type StatsSource interface {
	CollectStats(ctx context.Context) (domain.AdminStats, error)
}

func (s *Server) MountHandlers(h *Handlers, issuer *auth.Issuer) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Route("/v1", func(r chi.Router) {
		// Public surface.
		r.Route("/auth", func(r chi.Router) {
			r.With(Timeout(10 * time.Second)).Post("/register", h.register)
			r.With(Timeout(10 * time.Second)).Post("/login", h.login)
			r.Post("/refresh", h.refresh)
		})
		r.Get("/professionals", h.listProfessionals)
		r.Get("/professionals/{id}", h.getProfessional)
		r.Get("/professionals/{id}/reviews", h.listProfessionalReviews)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(issuer))
			r.Use(Timeout(15 * time.Second))

			r.Get("/users/me", h.getMe)
			r.Patch("/users/me", h.patchMe)
			r.Get("/users/{id}", h.getUser)
			r.Put("/professionals/me/profile", h.putProfile)

			r.Post("/requests", h.createRequest)
			r.Get("/requests", h.listRequests)
			r.Get("/requests/{id}", h.getRequest)
			r.Patch("/requests/{id}", h.moveRequest)
			r.Get("/requests/{id}/quotes", h.listQuotes)
			r.Post("/requests/{id}/quotes", h.submitQuote)
			r.Post("/quotes/{id}/accept", h.acceptQuote)
			r.Post("/quotes/{id}/reject", h.rejectQuote)
			r.Post("/quotes/{id}/withdraw", h.withdrawQuote)

			r.Post("/payments", h.createPayment)
			r.Get("/payments", h.listPayments)
			r.Get("/payments/{id}", h.getPayment)
			r.Post("/payments/{id}/refund", h.refundPayment)
			r.Get("/invoices/{id}", h.getInvoice)
			r.Get("/payment-methods", h.listPaymentMethods)
			r.Post("/payment-methods", h.addPaymentMethod)
			r.Delete("/payment-methods/{id}", h.deletePaymentMethod)

			r.Post("/reviews", h.createReview)

			r.Get("/chats", h.listChats)
			r.Get("/chats/{id}/messages", h.listMessages)

			r.Get("/notifications", h.listNotifications)
			r.Get("/notifications/unread-count", h.unreadCount)
			r.Post("/notifications/read", h.markNotificationsRead)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole("admin"))
				r.Get("/users", h.adminListUsers)
				r.Patch("/users/{id}/status", h.adminSetUserStatus)
				r.Get("/stats", h.adminStats)
			})
		})
	})

	// The socket endpoint authenticates via ?token= because browsers cannot
	// set headers on websocket dials.
	s.mux.Get("/v1/ws", h.serveWS(issuer))
}
