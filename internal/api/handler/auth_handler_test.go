package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/api/middleware"
	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

type stubDispatcher struct {
	dispatchFn func(ctx context.Context, req ports.ActionRequest) ports.ActionResponse
}

func (s *stubDispatcher) Dispatch(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	return s.dispatchFn(ctx, req)
}

type stubRevoker struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
	err    error
}

func (s *stubRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		s.tokens = map[string]time.Duration{}
	}
	s.tokens[token] = ttl
	return nil
}

type stubRecorder struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (s *stubRecorder) Record(event ports.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubRecorder) recorded() []ports.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setSession(c echo.Context, userID int64, username string, role domain.UserRole, token string, expiry time.Time) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxUsername, username)
	c.Set(middleware.CtxRole, role)
	c.Set(middleware.CtxToken, token)
	c.Set(middleware.CtxExpiry, expiry)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	profile := domain.UserProfile{
		ID: 3, Role: domain.RoleEmployee, Username: "alice",
		FirstName: "Alice", LastName: "Smith", Email: "alice@example.com",
	}
	dispatcher := &stubDispatcher{
		dispatchFn: func(_ context.Context, req ports.ActionRequest) ports.ActionResponse {
			if req.Kind != ports.ActionLogIn {
				t.Fatalf("dispatched %s, want %s", req.Kind, ports.ActionLogIn)
			}
			if req.Role != domain.RoleLoggedOut || req.UserID != domain.NullID {
				t.Fatalf("login dispatched with identity %d/%s", req.UserID, req.Role)
			}
			if req.Params[ports.ParamUsername] != "alice" || req.Params[ports.ParamPassword] != "secret" {
				t.Fatalf("credentials not forwarded")
			}
			return ports.ActionResponse{
				Result:   ports.ResultSuccess,
				Profiles: []domain.UserProfile{profile},
			}
		},
	}
	recorder := &stubRecorder{}
	h := NewAuthHandler(dispatcher, &stubRevoker{}, recorder, "secret", time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"username":"alice","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("expected token in response")
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims["username"] != "alice" || claims["role"] != "employee" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	view, ok := resp["profile"].(map[string]any)
	if !ok || view["username"] != "alice" || view["role"] != "employee" {
		t.Fatalf("unexpected profile payload: %+v", resp["profile"])
	}

	events := recorder.recorded()
	if len(events) != 1 || events[0].Action != ports.ActionLogIn || events[0].ActorID != 3 {
		t.Fatalf("unexpected audit trail: %+v", events)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	dispatcher := &stubDispatcher{
		dispatchFn: func(_ context.Context, _ ports.ActionRequest) ports.ActionResponse {
			return ports.ActionResponse{
				Result:  ports.ResultInvalidParameter,
				Message: "incorrect password",
			}
		},
	}
	recorder := &stubRecorder{}
	h := NewAuthHandler(dispatcher, &stubRevoker{}, recorder, "secret", time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"username":"alice","password":"bad"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "incorrect password") {
		t.Fatalf("message not rendered: %s", body)
	}
	if len(recorder.recorded()) != 0 {
		t.Fatalf("failed login should not be recorded as success")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	dispatcher := &stubDispatcher{
		dispatchFn: func(_ context.Context, _ ports.ActionRequest) ports.ActionResponse {
			t.Fatalf("should not dispatch")
			return ports.ActionResponse{}
		},
	}
	h := NewAuthHandler(dispatcher, &stubRevoker{}, &stubRecorder{}, "secret", time.Hour)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing password", `{"username":"alice"}`},
		{"empty object", `{}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/v1/auth/login", tc.body)
			if err := h.Login(c); err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	dispatcher := &stubDispatcher{
		dispatchFn: func(_ context.Context, req ports.ActionRequest) ports.ActionResponse {
			if req.Kind != ports.ActionLogOut || req.UserID != 5 {
				t.Fatalf("unexpected dispatch: %+v", req)
			}
			return ports.ActionResponse{Result: ports.ResultSuccess, Message: "logged out"}
		},
	}
	revoker := &stubRevoker{}
	recorder := &stubRecorder{}
	h := NewAuthHandler(dispatcher, revoker, recorder, "secret", time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/logout", "")
	expiry := time.Now().Add(30 * time.Minute)
	setSession(c, 5, "bob", domain.RoleEmployee, "tok-123", expiry)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	revoker.mu.Lock()
	ttl, revoked := revoker.tokens["tok-123"]
	revoker.mu.Unlock()
	if !revoked {
		t.Fatalf("token not revoked")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("revocation ttl %v outside token lifetime", ttl)
	}

	events := recorder.recorded()
	if len(events) != 1 || events[0].Action != ports.ActionLogOut || events[0].ActorID != 5 {
		t.Fatalf("unexpected audit trail: %+v", events)
	}
}

func TestAuthHandler_Logout_ForbiddenWhenLoggedOut(t *testing.T) {
	dispatcher := &stubDispatcher{
		dispatchFn: func(_ context.Context, _ ports.ActionRequest) ports.ActionResponse {
			return ports.ActionResponse{
				Result:  ports.ResultForbidden,
				Message: "no user is currently logged in",
			}
		},
	}
	revoker := &stubRevoker{}
	h := NewAuthHandler(dispatcher, revoker, &stubRecorder{}, "secret", time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/logout", "")
	setSession(c, domain.NullID, "", domain.RoleLoggedOut, "", time.Time{})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	revoker.mu.Lock()
	defer revoker.mu.Unlock()
	if len(revoker.tokens) != 0 {
		t.Fatalf("nothing should be revoked on a refused logout")
	}
}

func TestAuthHandler_Logout_NoSession(t *testing.T) {
	dispatcher := &stubDispatcher{
		dispatchFn: func(_ context.Context, _ ports.ActionRequest) ports.ActionResponse {
			t.Fatalf("should not dispatch")
			return ports.ActionResponse{}
		},
	}
	h := NewAuthHandler(dispatcher, &stubRevoker{}, &stubRecorder{}, "secret", time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/logout", "")
	if err := h.Logout(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
