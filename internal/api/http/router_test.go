package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/api/http/handlers"
	"github.com/spec-kit/swift-ticket/internal/auth"
	"github.com/spec-kit/swift-ticket/internal/config"
	"github.com/spec-kit/swift-ticket/internal/events"
	"github.com/spec-kit/swift-ticket/internal/observability"
	"github.com/spec-kit/swift-ticket/internal/persistence"
	"github.com/spec-kit/swift-ticket/internal/repository"
	"github.com/spec-kit/swift-ticket/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppWithEvents(t)
	return app
}

func newTestAppWithEvents(t *testing.T) (*fiber.App, events.Dispatcher) {
	t.Helper()
	logger := zap.NewNop()
	store := persistence.NewMemoryStore()
	metrics := observability.NewMetrics()
	state, err := service.LoadState(context.Background(), service.StateDependencies{
		UnitRepo:    repository.NewUnitRepository(store, logger),
		UserRepo:    repository.NewUserRepository(store, logger),
		SessionRepo: repository.NewSessionRepository(store, logger),
		TicketRepo:  repository.NewTicketRepository(store, logger),
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	cfg := config.Config{
		App:    config.AppConfig{Name: "swift-ticket", Version: "test"},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4},
		Ticket: config.TicketConfig{SLADefaultHours: 24, RecentLimit: 4},
	}
	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, state, dispatcher)
	ticketService := service.NewTicketService(cfg.Ticket, state, dispatcher)
	directoryService := service.NewDirectoryService(cfg.Auth, state, dispatcher)
	validator := handlers.NewValidator()

	app := NewApp(cfg.App.Name)
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, config.StoreDriverMemory, store),
		Auth:           handlers.NewAuthHandler(authService, validator),
		Tickets:        handlers.NewTicketsHandler(ticketService, directoryService, validator),
		Admin:          handlers.NewAdminHandler(directoryService, validator),
		Dashboard:      handlers.NewDashboardHandler(service.NewDashboardService(cfg.Ticket, state)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), authService),
		Registry:       metrics.Registry(),
	})
	return app, dispatcher
}

type response struct {
	status int
	body   map[string]any
	raw    string
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := response{status: resp.StatusCode, raw: string(raw)}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out.body); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return out
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if resp.status != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, resp.status, resp.raw)
	}
	return resp.body["data"].(map[string]any)["token"].(string)
}

func errorCode(r response) string {
	e, _ := r.body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	if r := call(t, app, http.MethodGet, "/health/live", "", ""); r.status != http.StatusOK || r.body["status"] != "alive" {
		t.Fatalf("live = %d %s", r.status, r.raw)
	}
	if r := call(t, app, http.MethodGet, "/health/ready", "", ""); r.status != http.StatusOK {
		t.Fatalf("ready = %d %s", r.status, r.raw)
	}
	r := call(t, app, http.MethodGet, "/metrics", "", "")
	if r.status != http.StatusOK || !strings.Contains(r.raw, "swift_ticket_http_requests_total") {
		t.Fatalf("metrics = %d", r.status)
	}
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	if r := call(t, app, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"nope"}`); r.status != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", r.status)
	}
	if r := call(t, app, http.MethodPost, "/auth/login", "", `{"username":"admin"}`); r.status != http.StatusBadRequest || errorCode(r) != "VALIDATION_FAILED" {
		t.Fatalf("missing password = %d %s", r.status, r.raw)
	}

	token := login(t, app, "admin", "123")
	me := call(t, app, http.MethodGet, "/auth/me", token, "")
	data := me.body["data"].(map[string]any)
	if me.status != http.StatusOK || data["username"] != "admin" || data["role"] != "ADMIN" {
		t.Fatalf("me = %d %s", me.status, me.raw)
	}

	if r := call(t, app, http.MethodPost, "/auth/logout", token, ""); r.status != http.StatusNoContent {
		t.Fatalf("logout = %d", r.status)
	}
	if r := call(t, app, http.MethodGet, "/auth/me", token, ""); r.status != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d", r.status)
	}
}

func TestNewLoginEndsPreviousSession(t *testing.T) {
	app := newTestApp(t)
	first := login(t, app, "admin", "123")
	second := login(t, app, "admin", "123")

	if r := call(t, app, http.MethodGet, "/auth/me", first, ""); r.status != http.StatusUnauthorized {
		t.Fatalf("stale token = %d", r.status)
	}
	if r := call(t, app, http.MethodGet, "/auth/me", second, ""); r.status != http.StatusOK {
		t.Fatalf("fresh token = %d", r.status)
	}
}

func TestTicketWorkflowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "admin", "123")
	for _, body := range []string{
		`{"username":"alice","password":"pw","name":"Alice","role":"USER"}`,
		`{"username":"ed","password":"pw","name":"Ed","role":"EXPERT","assigned_unit_id":"u1"}`,
	} {
		if r := call(t, app, http.MethodPost, "/admin/users", admin, body); r.status != http.StatusCreated {
			t.Fatalf("create user = %d %s", r.status, r.raw)
		}
	}
	if r := call(t, app, http.MethodPost, "/admin/users", admin, `{"username":"root","password":"pw","name":"Root","role":"ADMIN"}`); r.status != http.StatusBadRequest {
		t.Fatalf("admin creation = %d", r.status)
	}

	alice := login(t, app, "alice", "pw")
	units := call(t, app, http.MethodGet, "/units/support", alice, "")
	if list := units.body["data"].([]any); len(list) != 2 {
		t.Fatalf("support units = %s", units.raw)
	}
	created := call(t, app, http.MethodPost, "/tickets", alice, `{"title":"Printer","description":"It is on fire","unit_id":"u1"}`)
	if created.status != http.StatusCreated {
		t.Fatalf("create ticket = %d %s", created.status, created.raw)
	}
	ticket := created.body["data"].(map[string]any)
	id := ticket["id"].(string)
	if ticket["status"] != "OPEN" || ticket["last_update_ago"] != "just now" {
		t.Fatalf("ticket = %s", created.raw)
	}

	reply := call(t, app, http.MethodPost, "/tickets/"+id+"/messages", alice, `{"text":"any update?"}`)
	if reply.status != http.StatusCreated || reply.body["data"].(map[string]any)["status"] != "PENDING" {
		t.Fatalf("reply = %d %s", reply.status, reply.raw)
	}
	if r := call(t, app, http.MethodPost, "/tickets/"+id+"/messages", alice, `{}`); r.status != http.StatusBadRequest {
		t.Fatalf("empty reply = %d", r.status)
	}
	if r := call(t, app, http.MethodPost, "/tickets/"+id+"/close", alice, ""); r.status != http.StatusForbidden {
		t.Fatalf("user close = %d", r.status)
	}
	if r := call(t, app, http.MethodGet, "/dashboard", alice, ""); r.status != http.StatusForbidden {
		t.Fatalf("user dashboard = %d", r.status)
	}
	if r := call(t, app, http.MethodGet, "/admin/users", alice, ""); r.status != http.StatusForbidden {
		t.Fatalf("user admin = %d", r.status)
	}

	ed := login(t, app, "ed", "pw")
	if r := call(t, app, http.MethodPost, "/tickets", ed, `{"title":"x","description":"y","unit_id":"u1"}`); r.status != http.StatusForbidden {
		t.Fatalf("expert create = %d", r.status)
	}
	answer := call(t, app, http.MethodPost, "/tickets/"+id+"/messages", ed, `{"text":"on it"}`)
	if answer.status != http.StatusCreated || answer.body["data"].(map[string]any)["status"] != "OPEN" {
		t.Fatalf("expert reply = %d %s", answer.status, answer.raw)
	}
	closed := call(t, app, http.MethodPost, "/tickets/"+id+"/close", ed, "")
	if closed.status != http.StatusOK || closed.body["data"].(map[string]any)["status"] != "CLOSED" {
		t.Fatalf("close = %d %s", closed.status, closed.raw)
	}
	if r := call(t, app, http.MethodPost, "/tickets/"+id+"/messages", ed, `{"text":"one more"}`); r.status != http.StatusConflict || errorCode(r) != "TICKET_CLOSED" {
		t.Fatalf("reply on closed = %d %s", r.status, r.raw)
	}

	list := call(t, app, http.MethodGet, "/tickets?status=closed", ed, "")
	if items := list.body["data"].([]any); len(items) != 1 {
		t.Fatalf("closed list = %s", list.raw)
	}
	if r := call(t, app, http.MethodGet, "/tickets?status=RESOLVED", ed, ""); r.status != http.StatusBadRequest {
		t.Fatalf("bad status filter = %d", r.status)
	}
	if r := call(t, app, http.MethodGet, "/tickets/missing", ed, ""); r.status != http.StatusNotFound {
		t.Fatalf("missing ticket = %d", r.status)
	}

	admin = login(t, app, "admin", "123")
	board := call(t, app, http.MethodGet, "/dashboard", admin, "")
	counts := board.body["data"].(map[string]any)["counts"].(map[string]any)
	if board.status != http.StatusOK || counts["total"] != float64(1) || counts["closed"] != float64(1) {
		t.Fatalf("dashboard = %d %s", board.status, board.raw)
	}
}

func TestAdminDirectoryOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "admin", "123")

	created := call(t, app, http.MethodPost, "/admin/units", admin, `{"name":"Billing","type":"SUPPORT"}`)
	if created.status != http.StatusCreated {
		t.Fatalf("create unit = %d %s", created.status, created.raw)
	}
	unitID := created.body["data"].(map[string]any)["id"].(string)
	if r := call(t, app, http.MethodPost, "/admin/units", admin, `{"name":"X","type":"PARTNER"}`); r.status != http.StatusBadRequest {
		t.Fatalf("bad unit type = %d", r.status)
	}

	call(t, app, http.MethodPost, "/admin/users", admin, `{"username":"ed","password":"pw","name":"Ed","role":"EXPERT"}`)
	if r := call(t, app, http.MethodPost, "/admin/users", admin, `{"username":"ed","password":"pw","name":"Ed 2","role":"EXPERT"}`); r.status != http.StatusConflict {
		t.Fatalf("duplicate = %d", r.status)
	}
	patched := call(t, app, http.MethodPatch, "/admin/users/ed", admin, `{"assigned_unit_id":"`+unitID+`","permissions":{"can_reply":false,"is_admin_panel":true}}`)
	data := patched.body["data"].(map[string]any)
	perms := data["permissions"].(map[string]any)
	if patched.status != http.StatusOK || data["assigned_unit_id"] != unitID || perms["is_admin_panel"] != true || perms["can_reply"] != false || perms["can_view"] != true {
		t.Fatalf("patch = %d %s", patched.status, patched.raw)
	}
	users := call(t, app, http.MethodGet, "/admin/users", admin, "")
	if strings.Contains(users.raw, "password") {
		t.Fatalf("passwords leaked: %s", users.raw)
	}

	if r := call(t, app, http.MethodDelete, "/admin/units/"+unitID, admin, ""); r.status != http.StatusNoContent {
		t.Fatalf("delete unit = %d", r.status)
	}
	if r := call(t, app, http.MethodDelete, "/admin/units/"+unitID, admin, ""); r.status != http.StatusNotFound {
		t.Fatalf("delete unit twice = %d", r.status)
	}
	if r := call(t, app, http.MethodDelete, "/admin/users/ed", admin, ""); r.status != http.StatusNoContent {
		t.Fatalf("delete user = %d", r.status)
	}
	if r := call(t, app, http.MethodDelete, "/admin/users/admin", admin, ""); r.status != http.StatusConflict {
		t.Fatalf("self delete = %d", r.status)
	}
}

func TestUnknownRouteAndMissingToken(t *testing.T) {
	app := newTestApp(t)
	if r := call(t, app, http.MethodGet, "/nope", "", ""); r.status != http.StatusNotFound || errorCode(r) != "NOT_FOUND" {
		t.Fatalf("unknown route = %d %s", r.status, r.raw)
	}
	if r := call(t, app, http.MethodGet, "/tickets", "", ""); r.status != http.StatusUnauthorized {
		t.Fatalf("no token = %d", r.status)
	}
	if r := call(t, app, http.MethodGet, "/tickets", "garbage", ""); r.status != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", r.status)
	}
}

func TestDeletedEventsKeepTheirSubjects(t *testing.T) {
	app, dispatcher := newTestAppWithEvents(t)
	var subjects []string
	record := func(_ context.Context, event events.Event) error {
		subjects = append(subjects, event.Subject)
		return nil
	}
	dispatcher.Subscribe(events.EventUserDeleted, record)
	dispatcher.Subscribe(events.EventUnitDeleted, record)

	admin := login(t, app, "admin", "123")
	call(t, app, http.MethodPost, "/admin/users", admin, `{"username":"victim01","password":"pw","name":"V","role":"USER"}`)
	if r := call(t, app, http.MethodDelete, "/admin/users/victim01", admin, ""); r.status != http.StatusNoContent {
		t.Fatalf("delete user = %d %s", r.status, r.raw)
	}
	if r := call(t, app, http.MethodDelete, "/admin/units/u1", admin, ""); r.status != http.StatusNoContent {
		t.Fatalf("delete unit = %d %s", r.status, r.raw)
	}
	for i := 0; i < 5; i++ {
		call(t, app, http.MethodDelete, "/admin/users/qqqqqqqq", admin, "")
		call(t, app, http.MethodGet, "/admin/units/qq", admin, "")
	}

	if len(subjects) != 2 || subjects[0] != "victim01" || subjects[1] != "u1" {
		t.Fatalf("subjects = %q, want [victim01 u1]", subjects)
	}
}
