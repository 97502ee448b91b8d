// Package engine executes the tasks of a parsed job description, one
// at a time, staging every declared output under a temp name and
// renaming it into place only after the whole task succeeded. A failed
// task stops the job; outputs committed by earlier tasks stay.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/j-licht/crs-scripts/internal/config"
	"github.com/j-licht/crs-scripts/internal/event"
	"github.com/j-licht/crs-scripts/internal/jobfile"
)

// Engine owns one job for its lifetime: the parsed task list, the
// append-only execution log, and the per-task staging transactions.
type Engine struct {
	job    *jobfile.Job
	cfg    config.Engine
	label  string
	stdout io.Writer
	bus    event.Bus

	logLines []string
	states   []TaskState
}

type Option func(*Engine)

// WithBus attaches an event bus; the engine publishes task and job
// lifecycle events to it.
func WithBus(bus event.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithStdout redirects the mirror of captured subprocess output, which
// goes to the process stdout by default.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// New parses the job source (an inline XML document or a path to one)
// and returns a ready engine with an empty log. No engine is returned
// when the source does not parse.
func New(source string, cfg config.Engine, opts ...Option) (*Engine, error) {
	job, err := jobfile.LoadSource(source)
	if err != nil {
		return nil, err
	}

	if cfg.Shell == "" {
		cfg.Shell = "posix"
	}
	if cfg.TaskType == "" {
		cfg.TaskType = "encoding"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.TempAttempts <= 0 {
		cfg.TempAttempts = 10
	}

	label := job.Name
	if label == "" {
		if strings.HasPrefix(strings.TrimSpace(source), "<") {
			label = "(inline)"
		} else {
			label = filepath.Base(source)
		}
	}

	e := &Engine{job: job, cfg: cfg, label: label, stdout: os.Stdout}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Output returns a snapshot of the execution log: informational lines
// interleaved with captured subprocess output, in emission order.
func (e *Engine) Output() []string {
	out := make([]string, len(e.logLines))
	copy(out, e.logLines)
	return out
}

// TaskStates returns the per-task states of the most recent Execute
// call, in selection order.
func (e *Engine) TaskStates() []TaskState {
	out := make([]TaskState, len(e.states))
	copy(out, e.states)
	return out
}

// Execute runs every task whose type matches taskType (the configured
// default filter when empty), strictly in order, stopping at the first
// failure. It returns (true, nil) when all matching tasks committed,
// (false, nil) when a task failed and its staged outputs were
// discarded, and a FatalError when the environment or the job
// description itself is unusable. An empty selection succeeds
// immediately.
func (e *Engine) Execute(ctx context.Context, taskType string) (bool, error) {
	if taskType == "" {
		taskType = e.cfg.TaskType
	}

	var selected []jobfile.Task
	for _, t := range e.job.Flatten() {
		if t.Type == taskType {
			selected = append(selected, t)
		}
	}

	e.states = make([]TaskState, len(selected))
	total := len(selected)

	for i, task := range selected {
		e.states[i] = TaskRunning
		ok, err := e.runTask(ctx, task, i+1, total)
		if err != nil {
			return false, err
		}
		if !ok {
			e.states[i] = TaskRolledBack
			e.publish(ctx, event.Event{Type: event.JobAborted, Payload: event.JobEvent{
				JobLabel: e.label, TaskType: taskType, Executed: i + 1, FailedTask: i + 1,
			}})
			return false, nil
		}
		e.states[i] = TaskCommitted
	}

	e.publish(ctx, event.Event{Type: event.JobCompleted, Payload: event.JobEvent{
		JobLabel: e.label, TaskType: taskType, Executed: total,
	}})
	return true, nil
}

func (e *Engine) runTask(ctx context.Context, task jobfile.Task, index, total int) (bool, error) {
	txn := newStaging()
	res := &resolver{txn: txn, attempts: e.cfg.TempAttempts, logf: e.logf}
	bld := &builder{res: res, shell: e.cfg.Shell}

	command, err := bld.build(task.Options)
	if err != nil {
		return false, err
	}

	e.logf("now executing task %d of %d", index, total)
	log.Info().Int("task", index).Int("total", total).Str("type", task.Type).Msg("executing task")
	e.publish(ctx, event.Event{Type: event.TaskStarted, Payload: event.TaskEvent{
		JobLabel: e.label, TaskType: task.Type, Index: index, Total: total, Command: command,
	}})

	run := &runner{stdout: e.stdout, emit: e.append, logf: e.logf}
	encName := task.Encoding
	if encName == "" {
		encName = e.cfg.Encoding
	}

	ok, err := run.run(ctx, command, encName)
	if err != nil {
		return false, err
	}

	if ok {
		// The subprocess claims success; every promised output must
		// physically exist before anything is renamed into place.
		for _, absent := range txn.missing() {
			e.logf("declared output file missing: %s", absent)
			ok = false
		}
	}

	taskErr := ""
	if ok {
		if err := txn.commit(e.logf); err != nil {
			e.logf("%v", err)
			taskErr = err.Error()
			ok = false
		}
	} else {
		taskErr = "task did not complete"
	}

	if !ok {
		txn.rollback(e.logf)
		log.Warn().Int("task", index).Str("type", task.Type).Msg("task rolled back")
		e.publish(ctx, event.Event{Type: event.TaskRolledBack, Payload: event.TaskEvent{
			JobLabel: e.label, TaskType: task.Type, Index: index, Total: total,
			Command: command, Error: taskErr,
		}})
		return false, nil
	}

	e.publish(ctx, event.Event{Type: event.TaskCommitted, Payload: event.TaskEvent{
		JobLabel: e.label, TaskType: task.Type, Index: index, Total: total, Command: command,
	}})
	return true, nil
}

func (e *Engine) publish(ctx context.Context, ev event.Event) {
	if e.bus != nil {
		_ = e.bus.Publish(ctx, ev)
	}
}

func (e *Engine) append(line string) {
	e.logLines = append(e.logLines, line)
}

func (e *Engine) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	e.append(line)
	log.Debug().Msg(line)
}
