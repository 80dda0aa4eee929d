package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bl4ckarch/assetguard/internal/audit"
	"github.com/bl4ckarch/assetguard/internal/command"
	"github.com/bl4ckarch/assetguard/internal/executor"
	"github.com/bl4ckarch/assetguard/internal/handlers"
	"github.com/bl4ckarch/assetguard/internal/inputs"
	"github.com/bl4ckarch/assetguard/internal/registry"
	"github.com/bl4ckarch/assetguard/internal/scheduler"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	auditLog := audit.New(database)
	reg := registry.New(database, auditLog)
	store := command.NewStore(database, auditLog)
	preparer := inputs.NewPreparer(reg, t.TempDir())

	var sched *scheduler.Scheduler
	pool := executor.NewPool(1, 1, t.TempDir(), auditLog,
		func(id int64) { sched.MarkDone(id) })
	sched = scheduler.New(database, store, reg, pool, preparer, auditLog, scheduler.Config{
		OutputDir:   t.TempDir(),
		ExecTimeout: time.Minute,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth := &handlers.AuthHandler{
		AdminUser:     "admin",
		AdminPassHash: hash,
		Secret:        []byte("test-secret"),
		ExpireHours:   1,
		Audit:         auditLog,
	}

	srv := httptest.NewServer(newRouter(routerDeps{
		registry:  reg,
		commands:  store,
		scheduler: sched,
		audit:     auditLog,
		auth:      auth,
		hsts:      false,
	}))
	t.Cleanup(srv.Close)
	return srv, mock
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	body := []byte(`{"username":"admin","password":"hunter2"}`)
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if out["token"] == "" {
		t.Fatal("login returned empty token")
	}
	return out["token"]
}

func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status: got %d, want 200", resp.StatusCode)
	}
}

func TestAPI_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/targets")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status: got %d, want 401", resp.StatusCode)
	}
}

func TestAPI_LoginThenListTargets(t *testing.T) {
	srv, mock := newTestServer(t)
	token := login(t, srv)

	mock.ExpectQuery(`SELECT domain, program_url, enabled FROM domains`).
		WillReturnRows(sqlmock.NewRows([]string{"domain", "program_url", "enabled"}).
			AddRow("example.com", "https://example.com/p", true))

	req, _ := http.NewRequest("GET", srv.URL+"/v1/targets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var targets []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(targets) != 1 || targets[0]["domain"] != "example.com" {
		t.Errorf("unexpected targets: %v", targets)
	}
}

func TestAPI_BadTokenRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest("GET", srv.URL+"/v1/targets", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
}
