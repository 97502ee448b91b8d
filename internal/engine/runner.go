package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// runner executes one command line through the shell, capturing
// combined stdout and stderr line by line. The command is re-encoded
// into the requested byte encoding before invocation so non-ASCII
// arguments reach programs expecting a specific locale encoding;
// output lines are decoded back the same way.
type runner struct {
	stdout io.Writer
	emit   func(line string)
	logf   func(format string, args ...any)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fatalf("lookup encoding", "unknown text encoding %q", name)
	}
	return enc, nil
}

func (r *runner) run(ctx context.Context, command, encName string) (bool, error) {
	if encName == "" {
		encName = "utf-8"
	}
	enc, err := lookupEncoding(encName)
	if err != nil {
		return false, err
	}

	encoded, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(command)
	if err != nil {
		return false, fatalf("run command", "cannot encode command as %s: %v", encName, err)
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", encoded)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return false, fatalf("run command", "pipe: %v", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return false, fatalf("run command", "start: %v", err)
	}

	// The pipe must be drained to EOF before Wait: a child blocked on
	// a full pipe never exits. ReadString has no line-length cap, so
	// arbitrarily long lines (ffmpeg progress output) pass through
	// instead of wedging the loop.
	decoder := enc.NewDecoder()
	reader := bufio.NewReader(stdout)
	for {
		line, readErr := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if readErr == nil || line != "" {
			decoded, decErr := decoder.String(line)
			if decErr != nil {
				r.logf("could not decode output line as %s: %v", encName, decErr)
				decoded = line
			}
			fmt.Fprintln(r.stdout, decoded)
			r.emit(decoded)
		}
		if readErr != nil {
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logf("command exited with status %d", exitErr.ExitCode())
			return false, nil
		}
		return false, fatalf("run command", "wait: %v", err)
	}
	return true, nil
}
