package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	initDB()
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login %s failed status=%d body=%s", username, resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func TestDepositFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "walletuser1", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	token := loginAs(t, r, "walletuser1", "pass123")
	adminToken := loginAs(t, r, "admin", "admin123")

	// 2. Declare a wire transfer
	declBody, _ := json.Marshal(map[string]any{"amount": 150})
	resp = performRequest(r, http.MethodPost, "/transfers", bytes.NewBuffer(declBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("declare transfer failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var declResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &declResp)
	transferID, _ := declResp["id"].(float64)
	reference, _ := declResp["reference"].(string)
	if transferID == 0 || reference == "" {
		t.Fatalf("unexpected declare response: %+v", declResp)
	}

	// 3. Admin confirms the transfer
	confBody, _ := json.Marshal(map[string]string{"status": "received"})
	path := fmt.Sprintf("/admin/transfers/%d/status", int(transferID))
	resp = performRequest(r, http.MethodPost, path, bytes.NewBuffer(confBody), adminToken, "application/json")
	if resp.Code != 200 {
		t.Fatalf("confirm transfer failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. Re-confirming the same transfer must be rejected
	resp = performRequest(r, http.MethodPost, path, bytes.NewBuffer(confBody), adminToken, "application/json")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double confirm, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Balance reflects the deposit and matches the recomputed value
	resp = performRequest(r, http.MethodGet, "/wallet/balance", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("balance failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var balResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &balResp)
	if got, _ := balResp["balance"].(float64); got != 150 {
		t.Fatalf("expected balance 150 got %v (%+v)", got, balResp)
	}
	if verified, _ := balResp["verified"].(bool); !verified {
		t.Fatalf("stored balance should match the recomputed one: %+v", balResp)
	}

	// 6. Recalculate is a no-op on a consistent wallet
	resp = performRequest(r, http.MethodPost, "/wallet/recalculate", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("recalculate failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var recalcResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &recalcResp)
	if changed, _ := recalcResp["changed"].(bool); changed {
		t.Fatalf("recalculate changed a consistent balance: %+v", recalcResp)
	}

	// 7. History shows the deposit exactly once (transaction + transfer +
	// notification all carry the same reference)
	resp = performRequest(r, http.MethodGet, "/wallet/history", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("history failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var histResp struct {
		History []map[string]any `json:"history"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &histResp)
	seen := 0
	for _, e := range histResp.History {
		desc, _ := e["description"].(string)
		if bytes.Contains([]byte(desc), []byte(reference)) {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected deposit %s exactly once in history, got %d: %+v", reference, seen, histResp.History)
	}

	// 8. Unauthorized access to a protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/wallet/history", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized history got %d", unauth.Code)
	}

	// 9. Non-admin cannot reach the back office
	forb := performRequest(r, http.MethodGet, "/admin/transfers", nil, token, "")
	if forb.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", forb.Code)
	}
}

func TestWithdrawalFlow(t *testing.T) {
	r := setupTestServer(t)

	regBody, _ := json.Marshal(map[string]string{"username": "walletuser2", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	token := loginAs(t, r, "walletuser2", "pass123")

	// Withdrawal beyond the balance is refused
	wdBody, _ := json.Marshal(map[string]any{"amount": 1000000, "bank_name": "BIC", "iban": "SN00 0000"})
	resp = performRequest(r, http.MethodPost, "/withdrawals", bytes.NewBuffer(wdBody), token, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for overdraft withdrawal got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
