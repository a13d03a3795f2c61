package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medtrack/bp-monitor/internal/auth"
	"github.com/medtrack/bp-monitor/internal/database"
	"github.com/medtrack/bp-monitor/internal/logger"
	"github.com/medtrack/bp-monitor/internal/services"
	"github.com/medtrack/bp-monitor/internal/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	adminsPath := filepath.Join(t.TempDir(), "administrators.json")
	if err := os.WriteFile(adminsPath, []byte(`[{"username":"admin","password":"secret"}]`), 0600); err != nil {
		t.Fatalf("write admins: %v", err)
	}

	patients := services.NewPatientService(db)
	caregivers := services.NewCaregiverService(db)
	measurements := services.NewMeasurementService(db)
	authSvc := services.NewAuthService(caregivers, auth.NewSource(adminsPath), session.NewManager())

	return NewServer(patients, caregivers, measurements, authSvc).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/login", "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200 got %d (%s)", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func TestLoginFailure(t *testing.T) {
	h := setupServer(t)
	w := doJSON(t, h, http.MethodPost, "/login", "", `{"username":"nobody","password":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid credentials") {
		t.Fatalf("expected generic failure message, got %s", w.Body.String())
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	h := setupServer(t)
	w := doJSON(t, h, http.MethodGet, "/patients", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestAdminWorkflow(t *testing.T) {
	h := setupServer(t)
	token := login(t, h, "admin", "secret")

	w := doJSON(t, h, http.MethodPost, "/patients", token, `{"name":"Juan Pérez","age":67,"history":"hypertension"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add patient: expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPost, "/caregivers", token, `{"name":"Ana"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add caregiver: expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPost, "/measurements", token, `{"patient_id":1,"caregiver_id":1,"systolic":185,"diastolic":95}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add measurement: expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/patients/1/status", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200 got %d", w.Code)
	}
	var status struct {
		Latest *struct {
			Systolic int    `json:"systolic"`
			Category string `json:"category"`
		} `json:"latest"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Latest == nil || status.Latest.Systolic != 185 {
		t.Fatalf("unexpected status payload: %s", w.Body.String())
	}
	// 185/95 resolves in the risk-factors band, not the high band.
	if status.Latest.Category != "High blood pressure (with risk factors)" {
		t.Fatalf("unexpected category: %q", status.Latest.Category)
	}
}

func TestCaregiverRoleEnforcement(t *testing.T) {
	h := setupServer(t)
	adminToken := login(t, h, "admin", "secret")

	if w := doJSON(t, h, http.MethodPost, "/caregivers", adminToken, `{"name":"Ana"}`); w.Code != http.StatusCreated {
		t.Fatalf("add caregiver: %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodPost, "/patients", adminToken, `{"name":"Juan","age":67}`); w.Code != http.StatusCreated {
		t.Fatalf("add patient: %d", w.Code)
	}

	// Caregiver logs in with an arbitrary password.
	caregiverToken := login(t, h, "Ana", "whatever")

	// Admin-only routes reject before any store access.
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/patients", `{"name":"X","age":1}`},
		{http.MethodPost, "/caregivers", `{"name":"X"}`},
		{http.MethodGet, "/caregivers", ""},
	} {
		if w := doJSON(t, h, tc.method, tc.path, caregiverToken, tc.body); w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestCaregiverScopedHistory(t *testing.T) {
	h := setupServer(t)
	adminToken := login(t, h, "admin", "secret")

	for _, body := range []string{`{"name":"Ana"}`, `{"name":"Luis"}`} {
		if w := doJSON(t, h, http.MethodPost, "/caregivers", adminToken, body); w.Code != http.StatusCreated {
			t.Fatalf("add caregiver: %d", w.Code)
		}
	}
	if w := doJSON(t, h, http.MethodPost, "/patients", adminToken, `{"name":"Juan","age":67}`); w.Code != http.StatusCreated {
		t.Fatalf("add patient: %d", w.Code)
	}

	anaToken := login(t, h, "Ana", "")
	luisToken := login(t, h, "Luis", "")

	// Each caregiver records one reading; the caregiver_id in the body is
	// ignored for caregiver sessions.
	if w := doJSON(t, h, http.MethodPost, "/measurements", anaToken, `{"patient_id":1,"caregiver_id":2,"systolic":120,"diastolic":80}`); w.Code != http.StatusCreated {
		t.Fatalf("ana add: %d (%s)", w.Code, w.Body.String())
	}
	if w := doJSON(t, h, http.MethodPost, "/measurements", luisToken, `{"patient_id":1,"systolic":145,"diastolic":95}`); w.Code != http.StatusCreated {
		t.Fatalf("luis add: %d", w.Code)
	}

	var list []struct {
		CaregiverID uint `json:"caregiver_id"`
	}

	w := doJSON(t, h, http.MethodGet, "/patients/1/measurements", anaToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("ana list: %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].CaregiverID != 1 {
		t.Fatalf("ana must see only her own reading, got %s", w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/patients/1/measurements", adminToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin list: %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("admin must see both readings, got %s", w.Body.String())
	}
}

func TestAddMeasurementUnknownPatientMapsTo422(t *testing.T) {
	h := setupServer(t)
	adminToken := login(t, h, "admin", "secret")

	if w := doJSON(t, h, http.MethodPost, "/caregivers", adminToken, `{"name":"Ana"}`); w.Code != http.StatusCreated {
		t.Fatalf("add caregiver: %d", w.Code)
	}

	w := doJSON(t, h, http.MethodPost, "/measurements", adminToken, `{"patient_id":99,"caregiver_id":1,"systolic":120,"diastolic":80}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestLogout(t *testing.T) {
	h := setupServer(t)
	token := login(t, h, "admin", "secret")

	if w := doJSON(t, h, http.MethodPost, "/logout", token, ""); w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204 got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/patients", token, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
