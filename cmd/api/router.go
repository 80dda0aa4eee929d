package main

import (
	"net/http"

	"github.com/bl4ckarch/assetguard/internal/audit"
	"github.com/bl4ckarch/assetguard/internal/command"
	"github.com/bl4ckarch/assetguard/internal/handlers"
	"github.com/bl4ckarch/assetguard/internal/middleware"
	"github.com/bl4ckarch/assetguard/internal/registry"
	"github.com/bl4ckarch/assetguard/internal/scheduler"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	registry  *registry.Registry
	commands  *command.Store
	scheduler *scheduler.Scheduler
	audit     *audit.Log
	auth      *handlers.AuthHandler
	hsts      bool
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(deps.hsts))
	r.Use(middleware.Prometheus)
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	loginLimiter := middleware.LoginRateLimiter()
	r.With(loginLimiter.Middleware).Post("/auth/login", deps.auth.Login)

	targets := &handlers.TargetHandler{Registry: deps.registry}
	tools := &handlers.ToolHandler{Registry: deps.registry}
	commands := &handlers.CommandHandler{Store: deps.commands}
	schedules := &handlers.ScheduleHandler{Scheduler: deps.scheduler}
	logs := &handlers.AuditHandler{Log: deps.audit}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.JWT(deps.auth.Secret))

		r.Get("/targets", targets.ListTargets)
		r.Post("/targets", targets.AddTarget)
		r.Post("/targets/{domain}/toggle", targets.ToggleTarget)
		r.Delete("/targets/{domain}", targets.DeleteTarget)

		r.Get("/tools", tools.ListTools)
		r.Patch("/tools/{name}", tools.UpdateTool)

		r.Get("/commands", commands.ListCommands)
		r.Post("/commands", commands.CreateCommand)
		r.Put("/commands/{id}", commands.UpdateCommand)
		r.Delete("/commands/{id}", commands.DeleteCommand)

		r.Get("/schedules", schedules.ListSchedules)
		r.Post("/schedules", schedules.CreateSchedule)
		r.Put("/schedules/{id}", schedules.UpdateSchedule)
		r.Delete("/schedules/{id}", schedules.DeleteSchedule)

		r.Get("/logs", logs.ListLogs)
		r.Delete("/logs", logs.ClearLogs)
	})

	return r
}
