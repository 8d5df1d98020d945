// Package httpapi exposes the credential and expense services over a
// JSON REST API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/financevault/backend/internal/common"
	"github.com/financevault/backend/internal/logging"
	"github.com/financevault/backend/internal/server/auth"
	"github.com/financevault/backend/internal/server/models"
	"github.com/financevault/backend/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// AuthProvider is the slice of the auth service the API needs.
type AuthProvider interface {
	Register(ctx context.Context, username, encryptedPassword string) (string, error)
	Login(ctx context.Context, username, encryptedPassword string) (string, error)
	Logout(ctx context.Context, token string) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
	VerifyToken(token string) (*auth.Claims, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetPublicKey(ctx context.Context, name string) (string, error)
}

// ExpenseProvider is the slice of the expense service the API needs.
type ExpenseProvider interface {
	Create(ctx context.Context, userID, description string, amount float64, date time.Time, category string) (*models.Expense, error)
	List(ctx context.Context, userID string) ([]*models.Expense, error)
	Get(ctx context.Context, id, userID string) (*models.Expense, error)
	Update(ctx context.Context, id, userID string, patch services.ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, id, userID string) error
}

type Server struct {
	address  string
	logger   logging.Logger
	auth     AuthProvider
	expenses ExpenseProvider
	ping     func(ctx context.Context) error
}

// NewServer wires the route handlers to the services. ping reports
// database reachability for the health document and may be nil.
func NewServer(address string, l logging.Logger, a AuthProvider, e ExpenseProvider, ping func(ctx context.Context) error) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		auth:     a,
		expenses: e,
		ping:     ping,
	}
}

// Router assembles the route tree. Split from Run so tests can drive it
// with httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(corsMiddleware)

	r.Get("/", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/public-key", s.handlePublicKey)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/logout", s.handleLogout)
			r.Get("/profile", s.handleProfile)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", s.handleListExpenses)
				r.Post("/", s.handleCreateExpense)
				r.Get("/{id}", s.handleGetExpense)
				r.Put("/{id}", s.handleUpdateExpense)
				r.Delete("/{id}", s.handleDeleteExpense)
			})
		})
	})

	return r
}

// Run serves until the context is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := common.MakeRandHexString(8)
		if err == nil {
			w.Header().Set("X-Request-Id", id)
		}
		next.ServeHTTP(w, r)
	})
}
