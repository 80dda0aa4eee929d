// Package scheduler owns the schedule table and the minute tick that turns
// due entries into executor jobs.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bl4ckarch/assetguard/internal/command"
	"github.com/bl4ckarch/assetguard/internal/executor"
	"github.com/bl4ckarch/assetguard/internal/metrics"
	"github.com/bl4ckarch/assetguard/internal/models"
)

// CommandSource resolves schedule entries to command templates and argv.
// Satisfied by *command.Store.
type CommandSource interface {
	Get(ctx context.Context, id int64) (*models.CommandTemplate, error)
	Resolve(ctx context.Context, id int64, subs map[string]string) ([]string, error)
}

// ToolSource looks up tool state at trigger time. Satisfied by
// *registry.Registry.
type ToolSource interface {
	GetTool(ctx context.Context, name string) (*models.Tool, error)
}

// Runner accepts jobs without blocking the caller. Satisfied by
// *executor.Pool.
type Runner interface {
	Submit(job executor.Job)
}

// InputPreparer produces the domain-list file consumed via $domain_file.
// Satisfied by *inputs.Preparer.
type InputPreparer interface {
	DomainFile(ctx context.Context) (string, error)
}

// Auditor records scheduler events. Satisfied by *audit.Log.
type Auditor interface {
	Append(ctx context.Context, eventName, eventDetails string)
}

// Config carries the trigger-time settings threaded in from process
// configuration.
type Config struct {
	// OutputDir is where $output paths are allocated.
	OutputDir string
	// ExecTimeout is the wall-clock limit handed to the executor per run.
	ExecTimeout time.Duration
}

// Scheduler evaluates schedule entries on a fixed minute tick and hands due
// triggers to the executor. It keeps the process-lifetime set of command ids
// currently in flight so that at most one execution per command id exists at
// any instant.
type Scheduler struct {
	db       *sql.DB
	commands CommandSource
	tools    ToolSource
	runner   Runner
	inputs   InputPreparer
	audit    Auditor
	cfg      Config

	// now is the clock; swapped out in tests.
	now func() time.Time

	mu      sync.Mutex
	running map[int64]bool
}

// New returns a Scheduler with all collaborators injected.
func New(db *sql.DB, commands CommandSource, tools ToolSource, runner Runner, inputs InputPreparer, auditLog Auditor, cfg Config) *Scheduler {
	return &Scheduler{
		db:       db,
		commands: commands,
		tools:    tools,
		runner:   runner,
		inputs:   inputs,
		audit:    auditLog,
		cfg:      cfg,
		now:      time.Now,
		running:  make(map[int64]bool),
	}
}

// Run drives Tick on wall-clock minute boundaries until ctx is done.
// Minutes that pass while the process is down are never backfilled: only an
// exact match at evaluation time fires a trigger.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := s.now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case t := <-timer.C:
			if err := s.Tick(ctx, t); err != nil {
				slog.Error("scheduler tick failed", "error", err)
			}
		}
	}
}

// Tick evaluates every schedule entry against now once. It never blocks on
// execution; due triggers are handed to the runner and the loop moves on.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	entries, err := s.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list schedule entries: %w", err)
	}

	for _, e := range entries {
		if e.Hour != now.Hour() || e.Minute != now.Minute() {
			continue
		}
		if e.Day != "" && e.Day != strings.ToLower(now.Weekday().String()) {
			continue
		}
		s.fire(ctx, e, now)
	}
	return nil
}

// fire runs the due-trigger checks for one entry and, if they pass, marks
// the command as running and hands the job off.
func (s *Scheduler) fire(ctx context.Context, entry models.ScheduleEntry, now time.Time) {
	cmd, err := s.commands.Get(ctx, entry.CommandID)
	if err != nil {
		slog.Error("schedule entry references unusable command",
			"entry_id", entry.ID, "command_id", entry.CommandID, "error", err)
		return
	}

	tool, err := s.tools.GetTool(ctx, cmd.Tool)
	if err != nil {
		slog.Error("tool lookup failed", "tool", cmd.Tool, "error", err)
		return
	}

	// The enabled check happens once, here; toggling mid-execution has no
	// effect on a run already started.
	if !tool.Enabled {
		s.audit.Append(ctx, "execution_skipped_disabled",
			fmt.Sprintf("command %d not run: tool %s is disabled", entry.CommandID, tool.Name))
		metrics.TriggerSkipped("disabled")
		return
	}

	s.mu.Lock()
	if s.running[entry.CommandID] {
		s.mu.Unlock()
		// Skip, not queue: a missed trigger is not replayed.
		s.audit.Append(ctx, "execution_skipped_overlap",
			fmt.Sprintf("command %d not run: previous execution still in flight", entry.CommandID))
		metrics.TriggerSkipped("overlap")
		return
	}
	s.running[entry.CommandID] = true
	s.mu.Unlock()

	subs := map[string]string{
		command.PlaceholderOutput: filepath.Join(s.cfg.OutputDir,
			fmt.Sprintf("%s-%d-%s", tool.Name, entry.CommandID, now.Format("20060102-1504"))),
	}
	if cmd.ExpectsFileInput {
		domainFile, err := s.inputs.DomainFile(ctx)
		if err != nil {
			s.MarkDone(entry.CommandID)
			slog.Error("domain file preparation failed", "command_id", entry.CommandID, "error", err)
			return
		}
		subs[command.PlaceholderDomainFile] = domainFile
	}

	argv, err := s.commands.Resolve(ctx, entry.CommandID, subs)
	if err != nil {
		s.MarkDone(entry.CommandID)
		slog.Error("template resolution failed", "command_id", entry.CommandID, "error", err)
		return
	}

	// The template's leading token names the tool; the configured binary
	// path decides what actually gets executed.
	argv[0] = tool.BinaryPath

	slog.Info("trigger fired",
		"entry_id", entry.ID, "command_id", entry.CommandID, "tool", tool.Name)

	s.runner.Submit(executor.Job{
		CommandID:  entry.CommandID,
		Argv:       argv,
		Timeout:    s.cfg.ExecTimeout,
		OutputPath: subs[command.PlaceholderOutput],
	})
}

// MarkDone releases a command id from the running set. Wired as the
// executor's completion callback; also used to roll back a claim when
// trigger preparation fails before hand-off.
func (s *Scheduler) MarkDone(commandID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, commandID)
}
