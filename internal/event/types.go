package event

import "time"

type Type string

const (
	// Task lifecycle
	TaskStarted    Type = "task.started"
	TaskCommitted  Type = "task.committed"
	TaskRolledBack Type = "task.rolledback"

	// Job lifecycle
	JobCompleted Type = "job.completed"
	JobAborted   Type = "job.aborted"
)

type Event struct {
	Type      Type
	Timestamp time.Time
	Payload   any
}

// TaskEvent describes one task of a running job. Index is 1-based.
type TaskEvent struct {
	JobLabel string
	TaskType string
	Index    int
	Total    int
	Command  string
	Error    string
}

// JobEvent summarizes a finished job. FailedTask is the 1-based index
// of the task that stopped the job, zero when all tasks committed.
type JobEvent struct {
	JobLabel   string
	TaskType   string
	Executed   int
	FailedTask int
}
