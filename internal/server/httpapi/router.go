// Package httpapi is the JSON-over-HTTP transport of the account service.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

// AccountService is the part of services.AccountService the handlers use.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
	UpdateProfile(ctx context.Context, caller *models.Account, targetID, firstName, lastName string) (*models.Account, error)
	ListAccounts(ctx context.Context, caller *models.Account) (*services.AccountList, error)
	GetAccount(ctx context.Context, caller *models.Account, id string) (*models.Account, error)
}

type Handler struct {
	accounts AccountService
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// NewRouter builds the routes and the middleware chain:
// request id, access log, metrics, then bearer authentication.
func NewRouter(accounts AccountService, m *metrics.Metrics, l logging.Logger) http.Handler {
	h := &Handler{accounts: accounts, metrics: m, logger: l.With("module", "http_api")}

	r := mux.NewRouter()
	r.Use(h.requestID, h.accessLog, m.InstrumentHandler, h.authenticate)

	r.HandleFunc("/api/auth/signup", h.signup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signin", h.signin).Methods(http.MethodPost)
	r.Handle("/api/user/update/{id}", h.requireAuth(http.HandlerFunc(h.updateUser))).Methods(http.MethodPut)
	r.Handle("/api/users", h.requireAuth(http.HandlerFunc(h.getUsers))).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
