package engine

// TaskState tracks one task through the execution loop. Committed and
// RolledBack are terminal.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskRunning
	TaskCommitted
	TaskRolledBack
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskCommitted:
		return "committed"
	case TaskRolledBack:
		return "rolledback"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final for a task.
func (s TaskState) Terminal() bool {
	return s == TaskCommitted || s == TaskRolledBack
}
