package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/financevault/backend/internal/common"
	"github.com/financevault/backend/internal/server/models"
	"github.com/financevault/backend/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// expenseDateLayout is the wire format for expense dates.
const expenseDateLayout = "2006-01-02 15:04:05"

type credentialsRequest struct {
	Username          string `json:"username"`
	EncryptedPassword string `json:"encrypted_password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type publicKeyResponse struct {
	PublicKey string `json:"public_key"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type expenseRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Date        *string  `json:"date"`
	Category    *string  `json:"category"`
}

type expenseResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date.Format(expenseDateLayout),
		Category:    e.Category,
	}
}

// isPayloadError reports whether the error means the encrypted password
// blob itself was unusable, which is the caller's fault.
func isPayloadError(err error) bool {
	return errors.Is(err, common.ErrorInvalidBase64) ||
		errors.Is(err, common.ErrorDecryptionFailed) ||
		errors.Is(err, common.ErrorInvalidPayload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {

	resp := healthResponse{Status: "ok", Database: "up"}
	status := http.StatusOK

	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			resp = healthResponse{Status: "degraded", Database: "down"}
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}

// authResponseFor decodes the freshly issued token to echo the identity
// it carries, so clients do not have to parse the JWT themselves.
func (s *Server) authResponseFor(token string) (authResponse, error) {
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		return authResponse{}, err
	}
	return authResponse{Token: token, UserID: claims.UserID, Username: claims.Username}, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.EncryptedPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.auth.Register(r.Context(), req.Username, req.EncryptedPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(w, http.StatusConflict, "username already taken")
		case isPayloadError(err):
			writeError(w, http.StatusBadRequest, "invalid password payload")
		default:
			s.logger.Error(r.Context(), "Registration failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp, err := s.authResponseFor(token)
	if err != nil {
		s.logger.Error(r.Context(), "Decoding issued token", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.EncryptedPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.EncryptedPassword)
	if err != nil {
		switch {
		// an unknown username and a wrong password produce the same
		// response, so login cannot be used to probe for accounts
		case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case isPayloadError(err):
			writeError(w, http.StatusBadRequest, "invalid password payload")
		default:
			s.logger.Error(r.Context(), "Login failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp, err := s.authResponseFor(token)
	if err != nil {
		s.logger.Error(r.Context(), "Decoding issued token", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublicKey(w http.ResponseWriter, r *http.Request) {

	pem, err := s.auth.GetPublicKey(r.Context(), common.MainKeyName)
	if err != nil {
		s.logger.Error(r.Context(), "Public key lookup failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, publicKeyResponse{PublicKey: pem})
}

// handleLogout revokes the exact token the request authenticated with.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {

	token := bearerToken(r)

	if err := s.auth.Logout(r.Context(), token); err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.logger.Error(r.Context(), "Logout failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.auth.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error(r.Context(), "Profile lookup failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{ID: user.ID, Username: user.Name})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == nil || req.Amount == nil || req.Date == nil || req.Category == nil {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	date, err := time.Parse(expenseDateLayout, *req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	expense, err := s.expenses.Create(r.Context(), claims.UserID, *req.Description, *req.Amount, date, *req.Category)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(r.Context(), "Expense create failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenses, err := s.expenses.List(r.Context(), claims.UserID)
	if err != nil {
		s.logger.Error(r.Context(), "Expense list failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, toExpenseResponse(e))
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expense, err := s.expenses.Get(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.logger.Error(r.Context(), "Expense lookup failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := services.ExpensePatch{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	}
	if req.Date != nil {
		date, err := time.Parse(expenseDateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format")
			return
		}
		patch.Date = &date
	}

	expense, err := s.expenses.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "expense not found")
		case errors.Is(err, services.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(r.Context(), "Expense update failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.expenses.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.logger.Error(r.Context(), "Expense delete failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "deleted"})
}
