package scheduler

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bl4ckarch/assetguard/internal/apperr"
	"github.com/bl4ckarch/assetguard/internal/command"
	"github.com/bl4ckarch/assetguard/internal/executor"
	"github.com/bl4ckarch/assetguard/internal/models"
)

type fakeCommands struct {
	cmds map[int64]models.CommandTemplate
}

func (f *fakeCommands) Get(ctx context.Context, id int64) (*models.CommandTemplate, error) {
	c, ok := f.cmds[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "command", Key: fmt.Sprint(id)}
	}
	return &c, nil
}

func (f *fakeCommands) Resolve(ctx context.Context, id int64, subs map[string]string) ([]string, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return command.ResolveTemplate(c.Template, subs)
}

type fakeTools struct {
	tools map[string]models.Tool
}

func (f *fakeTools) GetTool(ctx context.Context, name string) (*models.Tool, error) {
	t, ok := f.tools[name]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "tool", Key: name}
	}
	return &t, nil
}

type fakeRunner struct {
	mu   sync.Mutex
	jobs []executor.Job
}

func (f *fakeRunner) Submit(job executor.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
}

func (f *fakeRunner) submitted() []executor.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]executor.Job(nil), f.jobs...)
}

type fakeAudit struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeAudit) Append(ctx context.Context, eventName, eventDetails string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventName)
}

func (f *fakeAudit) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakePreparer struct {
	path string
	err  error
}

func (f fakePreparer) DomainFile(ctx context.Context) (string, error) {
	return f.path, f.err
}

type fixture struct {
	sched  *Scheduler
	mock   sqlmock.Sqlmock
	runner *fakeRunner
	audit  *fakeAudit
	close  func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	commands := &fakeCommands{cmds: map[int64]models.CommandTemplate{
		1: {ID: 1, Tool: "amass", Template: "amass enum -df $domain_file -o $output", ExpectsFileInput: true, CmdType: "subdomain_enum"},
	}}
	tools := &fakeTools{tools: map[string]models.Tool{
		"amass": {Name: "amass", BinaryPath: "/usr/local/bin/amass", Enabled: true},
	}}
	runner := &fakeRunner{}
	aud := &fakeAudit{}

	sched := New(db, commands, tools, runner, fakePreparer{path: "/tmp/d.txt"}, aud, Config{
		OutputDir:   "/tmp/out",
		ExecTimeout: time.Minute,
	})

	return &fixture{sched: sched, mock: mock, runner: runner, audit: aud, close: func() { db.Close() }}
}

func (f *fixture) expectEntries(rows ...[]driverValue) {
	r := sqlmock.NewRows([]string{"id", "hour", "minute", "day", "cmd_id", "cmd_type"})
	for _, row := range rows {
		r.AddRow(row...)
	}
	f.mock.ExpectQuery(`SELECT id, hour, minute`).WillReturnRows(r)
}

type driverValue = driver.Value

func entryRow(id int64, hour, minute int, day string, cmdID int64) []driverValue {
	return []driverValue{id, hour, minute, day, cmdID, "subdomain_enum"}
}

func at(hour, minute int, weekday time.Weekday) time.Time {
	// 2026-08-30 is a Sunday; walk forward to the wanted weekday.
	base := time.Date(2026, 8, 30, hour, minute, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(weekday-base.Weekday()+7)%7)
}

func TestScheduler_Tick_FiresDueEntry(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.expectEntries(entryRow(10, 2, 0, "", 1))

	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	jobs := f.runner.submitted()
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.CommandID != 1 {
		t.Errorf("job command id = %d, want 1", job.CommandID)
	}
	if job.Argv[0] != "/usr/local/bin/amass" {
		t.Errorf("argv[0] = %q, want the configured binary path", job.Argv[0])
	}
	wantArgs := []string{"enum", "-df", "/tmp/d.txt", "-o"}
	for i, w := range wantArgs {
		if job.Argv[i+1] != w {
			t.Errorf("argv[%d] = %q, want %q", i+1, job.Argv[i+1], w)
		}
	}
	if !strings.HasPrefix(job.Argv[5], "/tmp/out/amass-1-") {
		t.Errorf("output path = %q, want it under the output dir", job.Argv[5])
	}
	if !f.sched.running[1] {
		t.Error("command 1 not marked running after hand-off")
	}
}

func TestScheduler_Tick_SkipsWhenNotDue(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.expectEntries(entryRow(10, 2, 0, "", 1))

	if err := f.sched.Tick(context.Background(), at(2, 1, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(f.runner.submitted()) != 0 {
		t.Error("entry fired off its scheduled minute")
	}
	if len(f.audit.names()) != 0 {
		t.Errorf("unexpected audit events: %v", f.audit.names())
	}
}

func TestScheduler_Tick_WeekdayMatch(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.expectEntries(entryRow(10, 2, 0, "sunday", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(f.runner.submitted()) != 1 {
		t.Fatal("entry with matching weekday did not fire")
	}

	f.sched.MarkDone(1)
	f.expectEntries(entryRow(10, 2, 0, "monday", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(f.runner.submitted()) != 1 {
		t.Error("entry fired on the wrong weekday")
	}
}

func TestScheduler_Tick_SkipsDisabledTool(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.sched.tools = &fakeTools{tools: map[string]models.Tool{
		"amass": {Name: "amass", BinaryPath: "amass", Enabled: false},
	}}

	f.expectEntries(entryRow(10, 2, 0, "", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(f.runner.submitted()) != 0 {
		t.Error("disabled tool was executed")
	}
	got := f.audit.names()
	if len(got) != 1 || got[0] != "execution_skipped_disabled" {
		t.Errorf("audit events = %v, want [execution_skipped_disabled]", got)
	}
	if f.sched.running[1] {
		t.Error("skipped command must not be marked running")
	}
}

func TestScheduler_Tick_SkipsOverlap(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.expectEntries(entryRow(10, 2, 0, "", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(f.runner.submitted()) != 1 {
		t.Fatal("first trigger did not fire")
	}

	// Same minute again while the run is still in flight.
	f.expectEntries(entryRow(10, 2, 0, "", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(f.runner.submitted()) != 1 {
		t.Error("overlapping trigger was executed")
	}
	got := f.audit.names()
	if len(got) != 1 || got[0] != "execution_skipped_overlap" {
		t.Errorf("audit events = %v, want [execution_skipped_overlap]", got)
	}
}

func TestScheduler_MarkDoneAllowsNextTrigger(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.expectEntries(entryRow(10, 2, 0, "", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	f.sched.MarkDone(1)

	f.expectEntries(entryRow(10, 2, 0, "", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(f.runner.submitted()) != 2 {
		t.Errorf("expected 2 runs after completion callback, got %d", len(f.runner.submitted()))
	}
}

func TestScheduler_Tick_ReleasesClaimOnPreparationFailure(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.sched.inputs = fakePreparer{err: errors.New("disk full")}

	f.expectEntries(entryRow(10, 2, 0, "", 1))
	if err := f.sched.Tick(context.Background(), at(2, 0, time.Sunday)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(f.runner.submitted()) != 0 {
		t.Error("job submitted despite failed input preparation")
	}
	if f.sched.running[1] {
		t.Error("running claim not released after preparation failure")
	}
}

func TestScheduler_CreateEntry(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.mock.ExpectExec(`INSERT INTO schedule`).
		WithArgs(2, 0, "", int64(1), "subdomain_enum").
		WillReturnResult(sqlmock.NewResult(5, 1))

	entry, err := f.sched.CreateEntry(context.Background(), 2, 0, "", 1)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.ID != 5 || entry.CmdType != "subdomain_enum" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	got := f.audit.names()
	if len(got) != 1 || got[0] != "schedule_added" {
		t.Errorf("audit events = %v", got)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestScheduler_CreateEntry_Validation(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	cases := []struct {
		hour, minute int
		day          string
	}{
		{24, 0, ""},
		{-1, 0, ""},
		{2, 60, ""},
		{2, -1, ""},
		{2, 0, "funday"},
	}
	for _, c := range cases {
		_, err := f.sched.CreateEntry(context.Background(), c.hour, c.minute, c.day, 1)
		var verr *apperr.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("hour=%d minute=%d day=%q: expected ValidationError, got %v", c.hour, c.minute, c.day, err)
		}
	}
}

func TestScheduler_CreateEntry_UnknownCommand(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	_, err := f.sched.CreateEntry(context.Background(), 2, 0, "", 99)
	var nerr *apperr.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestScheduler_DeleteEntry_NotFound(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.mock.ExpectExec(`DELETE FROM schedule WHERE id`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := f.sched.DeleteEntry(context.Background(), 99)
	var nerr *apperr.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestScheduler_ListEntries(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.expectEntries(
		entryRow(1, 2, 0, "", 1),
		entryRow(2, 14, 30, "friday", 1),
	)

	entries, err := f.sched.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Day != "friday" || entries[1].Hour != 14 || entries[1].Minute != 30 {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
}
