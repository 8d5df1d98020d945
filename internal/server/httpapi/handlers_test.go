package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/financevault/backend/internal/common"
	"github.com/financevault/backend/internal/server/models"
)

var errDB = errors.New("db down")

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestHandleRegister(t *testing.T) {
	valid := `{"username":"alice","encrypted_password":"enc"}`

	tests := []struct {
		name       string
		body       string
		auth       *stubAuth
		wantStatus int
	}{
		{"success", valid, &stubAuth{registerToken: "tok", claims: validClaims("u-1", "alice")}, http.StatusOK},
		{"duplicate", valid, &stubAuth{registerErr: common.ErrorAlreadyExists}, http.StatusConflict},
		{"bad payload", valid, &stubAuth{registerErr: common.ErrorInvalidBase64}, http.StatusBadRequest},
		{"internal", valid, &stubAuth{registerErr: errDB}, http.StatusInternalServerError},
		{"malformed json", `{"username":`, &stubAuth{}, http.StatusBadRequest},
		{"empty fields", `{"username":"","encrypted_password":""}`, &stubAuth{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.auth, &stubExpenses{})
			rec := doJSON(t, s.Router(), http.MethodPost, "/api/register", "", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				resp := decodeBody[authResponse](t, rec)
				if resp.Token != "tok" || resp.UserID != "u-1" || resp.Username != "alice" {
					t.Fatalf("unexpected response: %+v", resp)
				}
			}
		})
	}
}

func TestHandleLogin_UniformUnauthorized(t *testing.T) {
	// an unknown user and a wrong password must be indistinguishable
	for _, authErr := range []error{common.ErrorNotFound, common.ErrorInvalidCredentials} {
		s := newTestServer(&stubAuth{loginErr: authErr}, &stubExpenses{})
		rec := doJSON(t, s.Router(), http.MethodPost, "/api/login", "", `{"username":"alice","encrypted_password":"enc"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: status got %d want 401", authErr, rec.Code)
		}
		resp := decodeBody[errorResponse](t, rec)
		if resp.Error != "invalid credentials" {
			t.Fatalf("%v: unexpected error message %q", authErr, resp.Error)
		}
	}
}

func TestHandleLogin_Success(t *testing.T) {
	s := newTestServer(&stubAuth{loginToken: "tok", claims: validClaims("u-1", "alice")}, &stubExpenses{})
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/login", "", `{"username":"alice","encrypted_password":"enc"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	resp := decodeBody[authResponse](t, rec)
	if resp.Token != "tok" || resp.UserID != "u-1" || resp.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandlePublicKey(t *testing.T) {
	s := newTestServer(&stubAuth{publicKey: "-----BEGIN RSA PUBLIC KEY-----\n"}, &stubExpenses{})
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/public-key", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	resp := decodeBody[publicKeyResponse](t, rec)
	if !strings.HasPrefix(resp.PublicKey, "-----BEGIN RSA PUBLIC KEY-----") {
		t.Fatalf("unexpected key: %q", resp.PublicKey)
	}
}

func TestHandleLogout_RevokesPresentedToken(t *testing.T) {
	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/logout", "the.exact.token", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	if len(a.loggedOut) != 1 || a.loggedOut[0] != "the.exact.token" {
		t.Fatalf("logout must revoke the presented token, got %v", a.loggedOut)
	}
}

func TestHandleProfile(t *testing.T) {
	a := &stubAuth{
		claims: validClaims("u-1", "alice"),
		user:   &models.User{ID: "u-1", Name: "alice"},
	}
	s := newTestServer(a, &stubExpenses{})

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/profile", "tok", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	resp := decodeBody[profileResponse](t, rec)
	if resp.ID != "u-1" || resp.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestHandleProfile_RequiresAuth(t *testing.T) {
	s := newTestServer(&stubAuth{}, &stubExpenses{})
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/profile", "", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
}

func TestHandleCreateExpense(t *testing.T) {
	date := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	created := &models.Expense{ID: "e-1", UserID: "u-1", Description: "groceries", Amount: 42.5, Date: date, Category: "food"}

	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{created: created})

	body := `{"description":"groceries","amount":42.5,"date":"2025-11-02 12:00:00","category":"food"}`
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/expenses/", "tok", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d want 201, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[expenseResponse](t, rec)
	if resp.ID != "e-1" || resp.Date != "2025-11-02 12:00:00" {
		t.Fatalf("unexpected expense: %+v", resp)
	}
}

func TestHandleCreateExpense_BadInput(t *testing.T) {
	a := &stubAuth{claims: validClaims("u-1", "alice")}

	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"description":"x","amount":1,"date":"2025/11/02","category":"c"}`},
		{"missing field", `{"description":"x","amount":1,"category":"c"}`},
		{"malformed json", `{"description":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(a, &stubExpenses{})
			rec := doJSON(t, s.Router(), http.MethodPost, "/api/expenses/", "tok", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d want 400", rec.Code)
			}
		})
	}
}

func TestHandleGetExpense_NotFound(t *testing.T) {
	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{getErr: common.ErrorNotFound})

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/expenses/e-404", "tok", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want 404", rec.Code)
	}
}

func TestHandleListExpenses(t *testing.T) {
	date := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{list: []*models.Expense{
		{ID: "e-1", UserID: "u-1", Description: "lunch", Amount: 10, Date: date, Category: "food"},
	}})

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/expenses/", "tok", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	resp := decodeBody[[]expenseResponse](t, rec)
	if len(resp) != 1 || resp[0].Description != "lunch" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestHandleListExpenses_Empty(t *testing.T) {
	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{list: []*models.Expense{}})

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/expenses/", "tok", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	// empty list renders as [], not null
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestHandleUpdateExpense(t *testing.T) {
	date := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	updated := &models.Expense{ID: "e-1", UserID: "u-1", Description: "dinner", Amount: 20, Date: date, Category: "food"}

	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{updated: updated})

	rec := doJSON(t, s.Router(), http.MethodPut, "/api/expenses/e-1", "tok", `{"description":"dinner","amount":20}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	if resp := decodeBody[expenseResponse](t, rec); resp.Description != "dinner" {
		t.Fatalf("unexpected expense: %+v", resp)
	}
}

func TestHandleDeleteExpense(t *testing.T) {
	a := &stubAuth{claims: validClaims("u-1", "alice")}
	s := newTestServer(a, &stubExpenses{})

	rec := doJSON(t, s.Router(), http.MethodDelete, "/api/expenses/e-1", "tok", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubAuth{}, &stubExpenses{})
	rec := doJSON(t, s.Router(), http.MethodGet, "/", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	resp := decodeBody[healthResponse](t, rec)
	if resp.Status != "ok" || resp.Database != "up" {
		t.Fatalf("unexpected health: %+v", resp)
	}
}

func TestHandleHealth_DatabaseDown(t *testing.T) {
	s := NewServer(":0", nopLogger{}, &stubAuth{}, &stubExpenses{}, func(ctx context.Context) error {
		return errDB
	})
	rec := doJSON(t, s.Router(), http.MethodGet, "/", "", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d want 503", rec.Code)
	}
	resp := decodeBody[healthResponse](t, rec)
	if resp.Status != "degraded" || resp.Database != "down" {
		t.Fatalf("unexpected health: %+v", resp)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(&stubAuth{}, &stubExpenses{})
	rec := doJSON(t, s.Router(), http.MethodGet, "/", "", "")

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing request id header")
	}
}
