package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type authResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

type userResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	User    *models.Account `json:"user"`
}

type usersResponse struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	TotalUsers int               `json:"totalUsers"`
	Users      []*models.Account `json:"users"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: statusError, Message: message})
}
