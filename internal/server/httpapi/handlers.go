package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

const maxBodyBytes = 1 << 20

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decode(w, r, &in) {
		return
	}

	res, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			h.metrics.RecordAuth("signup", "email_taken")
			writeError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, common.ErrValidation):
			h.metrics.RecordAuth("signup", "invalid")
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.internalError(w, r, err)
		}
		return
	}

	h.metrics.RecordAuth("signup", "success")
	writeJSON(w, http.StatusOK, authResponse{
		Status:  statusSuccess,
		Message: "User registered successfully",
		Token:   res.Token,
		UserID:  res.AccountID,
		Email:   res.Email,
	})
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var in signinRequest
	if !decode(w, r, &in) {
		return
	}

	res, err := h.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			h.metrics.RecordAuth("signin", "not_found")
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrInvalidCredentials):
			h.metrics.RecordAuth("signin", "invalid_credentials")
			writeError(w, http.StatusBadRequest, "Invalid credentials")
		default:
			h.internalError(w, r, err)
		}
		return
	}

	h.metrics.RecordAuth("signin", "success")
	writeJSON(w, http.StatusOK, authResponse{
		Status:  statusSuccess,
		Message: "User logged in successfully",
		Token:   res.Token,
		UserID:  res.AccountID,
		Email:   res.Email,
	})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var in updateRequest
	if !decode(w, r, &in) {
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), caller, id, in.FirstName, in.LastName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrForbidden):
			writeError(w, http.StatusForbidden, "You are not allowed to update this user.")
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Status: statusSuccess, Message: "User updated successfully", User: updated})
}

// getUsers returns one account when ?id= is present (even empty) and the
// whole listing otherwise. An empty listing is 204 with no body.
func (h *Handler) getUsers(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	q := r.URL.Query()

	if q.Has("id") {
		account, err := h.accounts.GetAccount(r.Context(), caller, q.Get("id"))
		if err != nil {
			h.usersError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{Status: statusSuccess, Message: "Fetched user successfully", User: account})
		return
	}

	list, err := h.accounts.ListAccounts(r.Context(), caller)
	if err != nil {
		h.usersError(w, r, err)
		return
	}
	if list.Total == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, usersResponse{
		Status:     statusSuccess,
		Message:    "Fetched users successfully",
		TotalUsers: list.Total,
		Users:      list.Accounts,
	})
}

func (h *Handler) usersError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrForbidden):
		writeError(w, http.StatusForbidden, "You are not permitted to access this data")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// internalError never echoes err to the client.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
