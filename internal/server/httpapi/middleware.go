package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type callerKey struct{}

// CallerFromContext returns the authenticated account, if any.
func CallerFromContext(ctx context.Context) (*models.Account, bool) {
	a, ok := ctx.Value(callerKey{}).(*models.Account)
	return a, ok && a != nil
}

func withCaller(ctx context.Context, a *models.Account) context.Context {
	return context.WithValue(ctx, callerKey{}, a)
}

// requestID reuses an incoming X-Request-ID or mints one, echoes it back and
// stores it in the context for the logger.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := metrics.NewStatusRecorder(w)
		start := time.Now()

		next.ServeHTTP(rec, r)

		h.logger.Info(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status,
			"duration", time.Since(start),
		)
	})
}

// authenticate puts the caller of a valid bearer token into the context. A
// missing or rejected token leaves the request anonymous for requireAuth to
// decide; only a failed account lookup ends the request, with 500.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		caller, err := h.accounts.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorInternal) {
				h.internalError(w, r, err)
				return
			}
			h.logger.Debug(r.Context(), "token rejected", "reason", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
	})
}

func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CallerFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	v := r.Header.Get(common.AuthorizationHeaderName)
	if len(v) <= len(common.BearerPrefix) || !strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(v[len(common.BearerPrefix):])
	return token, token != ""
}
