package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"binduty-service/internal/auth"
	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/notification"
	"binduty-service/internal/providers"
	"binduty-service/internal/repo"
	"binduty-service/internal/services"
	"binduty-service/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopSender struct{}

func (nopSender) Send(context.Context, string, models.Message) error { return nil }

type testServer struct {
	router *gin.Engine
	svc    *services.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	st := &store.Redis{Client: client}

	var cfg config.Config
	cfg.API.BasePath = "/api/v0"
	cfg.Cron.Secret = "cron-secret"
	cfg.RateLimit.PublicPerMinute = 2
	cfg.RateLimit.PublicBurst = 2
	cfg.Notification.QueueSize = 1

	logger := logging.Discard()
	senders := map[models.Channel]providers.Sender{
		models.ChannelWhatsApp: nopSender{},
		models.ChannelSMS:      nopSender{},
		models.ChannelEmail:    nopSender{},
	}
	dispatcher := notification.New(senders, repo.NewHistory(st, time.Now), nil, logger, time.Second)
	svc := services.New(services.Deps{
		Store:      st,
		Dispatcher: dispatcher,
		Tokens:     auth.NewTokenManager("test-secret", time.Hour),
		Logger:     logger,
		Config:     cfg,
	})
	h := NewHandler(svc, nil, logger, cfg)
	return &testServer{router: NewRouter(h, logger, cfg), svc: svc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, "/api/v0"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login creates an admin with role and returns a token for it.
func (s *testServer) login(t *testing.T, email, role string) string {
	t.Helper()
	if _, err := s.svc.CreateAdmin(context.Background(), "setup", models.AdminCreate{Email: email, Password: "pw", Role: role}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	w := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body)
	}
	var res struct {
		Token string `json:"token"`
	}
	decode(t, w, &res)
	if res.Token == "" {
		t.Fatalf("empty token in %s", w.Body)
	}
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body, err)
	}
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	return body.Message
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, http.MethodGet, "/residents", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/residents", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", w.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "root@example.com", models.RoleSuperuser)
	w := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "root@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if got := message(t, w); got != "Invalid credentials" {
		t.Errorf("message = %q", got)
	}
	w = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "root@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d", w.Code)
	}
}

func TestEditorCannotReadSettings(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "ed@example.com", models.RoleEditor)
	w := s.do(t, http.MethodGet, "/settings", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/residents", token, nil); w.Code != http.StatusOK {
		t.Errorf("editor residents: status = %d", w.Code)
	}
}

func TestResidentsCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "root@example.com", models.RoleSuperuser)

	w := s.do(t, http.MethodPost, "/residents", token, map[string]interface{}{
		"name": "Jane", "flat_number": "4B", "contact": map[string]string{"email": "jane@example.com"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}
	var jane models.Resident
	decode(t, w, &jane)
	if jane.ID == "" {
		t.Fatal("created resident has no id")
	}

	w = s.do(t, http.MethodPut, "/residents/"+jane.ID, token, map[string]string{"notes": "ground floor"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/residents", token, nil)
	var list []models.Resident
	decode(t, w, &list)
	if len(list) != 1 || list[0].Notes != "ground floor" {
		t.Fatalf("list = %+v", list)
	}

	w = s.do(t, http.MethodDelete, "/residents/missing", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing: status = %d", w.Code)
	}
	if got := message(t, w); got != "Resident missing not found" {
		t.Errorf("message = %q", got)
	}

	w = s.do(t, http.MethodDelete, "/residents/"+jane.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete: status = %d", w.Code)
	}
}

func TestReorderMismatch(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "root@example.com", models.RoleSuperuser)
	s.do(t, http.MethodPost, "/residents", token, map[string]string{"name": "A", "flat_number": "1"})

	w := s.do(t, http.MethodPut, "/residents/order", token, map[string]interface{}{
		"residents": []map[string]string{{"id": "someone-else"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if got := message(t, w); got != "Mismatch in resident list" {
		t.Errorf("message = %q", got)
	}
}

func TestTriggerReminder(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "root@example.com", models.RoleSuperuser)

	w := s.do(t, http.MethodPost, "/trigger-reminder", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty rotation: status = %d", w.Code)
	}
	if got := message(t, w); got != "No residents to remind." {
		t.Errorf("message = %q", got)
	}

	s.do(t, http.MethodPost, "/residents", token, map[string]interface{}{
		"name": "Jane", "flat_number": "4B", "contact": map[string]string{"sms": "+15550001"},
	})
	w = s.do(t, http.MethodPost, "/trigger-reminder", token, map[string]string{"message": "Hi {name}"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var res models.ReminderResult
	decode(t, w, &res)
	if res.Outcome != models.ReminderSent || res.Resident != "Jane" {
		t.Errorf("result = %+v", res)
	}
}

func TestCronTriggerSecret(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v0/cron/trigger-reminder", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("missing secret: status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v0/cron/trigger-reminder", nil)
	req.Header.Set("X-Cron-Secret", "cron-secret")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	// Authorized, but there is nobody to remind.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("with secret: status = %d, body %s", w.Code, w.Body)
	}
}

func TestPublicIssueRateLimited(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"name": "Jane", "flat_number": "4B", "description": "Leaking tap"}
	for i := 0; i < 2; i++ {
		if w := s.do(t, http.MethodPost, "/issues", "", body); w.Code != http.StatusCreated {
			t.Fatalf("report %d: status = %d, body %s", i, w.Code, w.Body)
		}
	}
	if w := s.do(t, http.MethodPost, "/issues", "", body); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third report: status = %d", w.Code)
	}

	w := s.do(t, http.MethodGet, "/issues/public", "", nil)
	var issues []models.Issue
	decode(t, w, &issues)
	if len(issues) != 2 || issues[0].Status != models.IssueStatusReported {
		t.Errorf("issues = %+v", issues)
	}
}

func TestAdminConflictAndSelfDelete(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "root@example.com", models.RoleSuperuser)

	w := s.do(t, http.MethodPost, "/admins", token, map[string]string{"email": "ROOT@example.com", "password": "x", "role": "editor"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if got := message(t, w); got != "Admin with this email already exists" {
		t.Errorf("message = %q", got)
	}

	w = s.do(t, http.MethodGet, "/auth/me", token, nil)
	var me models.Admin
	decode(t, w, &me)
	if me.PasswordHash != "" {
		t.Error("password hash leaked")
	}
	w = s.do(t, http.MethodDelete, "/admins/"+me.ID, token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("self delete: status = %d", w.Code)
	}
}

func TestDeliveriesWithoutArchive(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "root@example.com", models.RoleSuperuser)
	if w := s.do(t, http.MethodGet, "/deliveries", token, nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}
