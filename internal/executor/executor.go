// Package executor runs resolved tool commands as external processes under
// a bounded worker pool, records outcomes to the audit log, and reports
// completion back to the scheduler.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bl4ckarch/assetguard/internal/metrics"
)

// Auditor records execution outcomes. Satisfied by *audit.Log.
type Auditor interface {
	Append(ctx context.Context, eventName, eventDetails string)
}

// Outcome classifies how a run ended. A non-zero exit code is still
// OutcomeCompleted; it is a recorded result, not an executor failure.
type Outcome string

const (
	OutcomeCompleted          Outcome = "completed"
	OutcomeBinaryNotFound     Outcome = "binary_not_found"
	OutcomeTimedOut           Outcome = "timed_out"
	OutcomeOutputWriteFailure Outcome = "output_write_failure"
)

// Job is one concrete, fully substituted command to execute.
type Job struct {
	CommandID int64
	Argv      []string
	Timeout   time.Duration
	// OutputPath is the path substituted for $output, recorded for
	// traceability. The tool itself writes there.
	OutputPath string
}

// Record summarizes one finished run. It lives only in memory; durable
// history goes through the audit log.
type Record struct {
	CommandID  int64
	Argv       []string
	StartedAt  time.Time
	EndedAt    time.Time
	Outcome    Outcome
	ExitCode   int
	OutputPath string
}

// Pool is a bounded worker pool over a bounded job queue. At most `workers`
// external processes run concurrently, system-wide.
type Pool struct {
	jobs       chan Job
	workers    int
	captureDir string
	audit      Auditor

	// onDone is invoked exactly once per job, whatever the outcome. The
	// scheduler uses it to release the command id from its running set.
	onDone func(commandID int64)

	wg sync.WaitGroup
}

// NewPool returns a Pool with the given concurrency cap and queue bound.
func NewPool(workers, queueSize int, captureDir string, auditLog Auditor, onDone func(int64)) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if onDone == nil {
		onDone = func(int64) {}
	}
	return &Pool{
		jobs:       make(chan Job, queueSize),
		workers:    workers,
		captureDir: captureDir,
		audit:      auditLog,
		onDone:     onDone,
	}
}

// Start launches the workers. They drain the queue until ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-p.jobs:
					p.Run(ctx, job)
				}
			}
		}()
	}
}

// Wait blocks until all workers have exited (after ctx cancellation).
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Submit hands a job to the pool without delaying the caller. When the queue
// is saturated the enqueue is moved to its own goroutine so the scheduler's
// tick loop never blocks on execution; the job still waits its turn in the
// queue rather than being dropped.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		go func() { p.jobs <- job }()
	}
}

// Run executes one job synchronously and returns its record. It never
// returns an error: failures are encoded in the record's outcome, exactly
// one audit event is appended, and the completion callback fires exactly
// once, even on timeout or launch failure.
func (p *Pool) Run(ctx context.Context, job Job) Record {
	defer p.onDone(job.CommandID)

	metrics.ExecutionStarted()

	rec := Record{
		CommandID:  job.CommandID,
		Argv:       job.Argv,
		StartedAt:  time.Now(),
		OutputPath: job.OutputPath,
	}
	rec.Outcome, rec.ExitCode = p.execute(ctx, job)
	rec.EndedAt = time.Now()

	metrics.ExecutionFinished(string(rec.Outcome))
	p.auditOutcome(ctx, rec)

	return rec
}

func (p *Pool) execute(ctx context.Context, job Job) (Outcome, int) {
	capture, err := p.openCapture(job)
	if err != nil {
		return OutcomeOutputWriteFailure, 0
	}
	defer capture.Close()

	binary, err := exec.LookPath(job.Argv[0])
	if err != nil {
		return OutcomeBinaryNotFound, 0
	}

	runCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, binary, job.Argv[1:]...)
	cmd.Stdout = capture
	cmd.Stderr = capture

	err = cmd.Run()

	// CommandContext kills the process on deadline; classify that before
	// looking at the exit error it produces.
	if runCtx.Err() == context.DeadlineExceeded {
		return OutcomeTimedOut, 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return OutcomeCompleted, exitErr.ExitCode()
	}
	if err != nil {
		return OutcomeBinaryNotFound, 0
	}
	return OutcomeCompleted, 0
}

// openCapture creates the file receiving the process's combined
// stdout/stderr.
func (p *Pool) openCapture(job Job) (*os.File, error) {
	if err := os.MkdirAll(p.captureDir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("capture-%d-%s.log", job.CommandID, time.Now().Format("20060102-150405"))
	return os.Create(filepath.Join(p.captureDir, name))
}

func (p *Pool) auditOutcome(ctx context.Context, rec Record) {
	argv := strings.Join(rec.Argv, " ")
	switch rec.Outcome {
	case OutcomeCompleted:
		p.audit.Append(ctx, "execution_completed",
			fmt.Sprintf("command %d (`%s`) finished with exit code %d, output %s",
				rec.CommandID, argv, rec.ExitCode, rec.OutputPath))
	case OutcomeBinaryNotFound:
		p.audit.Append(ctx, "execution_failed_binary_not_found",
			fmt.Sprintf("command %d (`%s`): binary not found", rec.CommandID, argv))
	case OutcomeTimedOut:
		p.audit.Append(ctx, "execution_failed_timeout",
			fmt.Sprintf("command %d (`%s`) killed after timeout", rec.CommandID, argv))
	case OutcomeOutputWriteFailure:
		p.audit.Append(ctx, "execution_failed_output_write",
			fmt.Sprintf("command %d (`%s`): could not open capture file", rec.CommandID, argv))
	}
}
