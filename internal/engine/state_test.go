package engine

import "testing"

func TestTaskStateString(t *testing.T) {
	tests := []struct {
		state TaskState
		want  string
	}{
		{TaskPending, "pending"},
		{TaskRunning, "running"},
		{TaskCommitted, "committed"},
		{TaskRolledBack, "rolledback"},
		{TaskState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("TaskState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestTaskStateTerminal(t *testing.T) {
	for _, s := range []TaskState{TaskCommitted, TaskRolledBack} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []TaskState{TaskPending, TaskRunning} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
