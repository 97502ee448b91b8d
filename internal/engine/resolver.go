package engine

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/j-licht/crs-scripts/internal/translit"
)

// File reference roles carried by the filetype attribute of an option.
const (
	roleExe = "exe"
	roleIn  = "in"
	roleCfg = "cfg"
	roleOut = "out"
)

// resolver turns typed file references into usable paths. Output
// references are staged under temp names in the task's staging
// transaction; input and config resolution never touches the
// filesystem.
type resolver struct {
	txn      *staging
	attempts int
	logf     func(format string, args ...any)
}

func (r *resolver) resolve(name, role string) (string, error) {
	switch role {
	case roleExe:
		return r.resolveExecutable(name)
	case roleIn, roleCfg:
		return r.resolveInput(name, role)
	case roleOut:
		return r.resolveOutput(name)
	default:
		return "", fatalf("resolve file", "unknown file type %q for %s", role, name)
	}
}

func (r *resolver) resolveExecutable(name string) (string, error) {
	if isExecutable(name) {
		return name, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fatalf("resolve executable", "%s not found in search path", name)
	}
	return path, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0111 != 0
}

func (r *resolver) resolveInput(name, role string) (string, error) {
	if !filepath.IsAbs(name) {
		return "", fatalf("resolve "+role+" file", "%s is not an absolute path", name)
	}
	if readable(name) {
		return name, nil
	}
	// The file may be an output of an earlier option within the same
	// command, consumed before the command ever runs.
	if temp, ok := r.txn.lookup(name); ok {
		return temp, nil
	}
	if ascii := translit.String(name); ascii != name && readable(ascii) {
		r.logf("using transliterated fallback %s for %s", ascii, name)
		return ascii, nil
	}
	return "", fatalf("resolve "+role+" file", "file missing: %s", name)
}

func readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}

func (r *resolver) resolveOutput(name string) (string, error) {
	const op = "stage output file"
	if !filepath.IsAbs(name) {
		return "", fatalf(op, "%s is not an absolute path", name)
	}

	if _, err := os.Lstat(name); err == nil {
		r.logf("deleting existing file %s", name)
		_ = os.Remove(name)
		if _, err := os.Lstat(name); err == nil {
			return "", fatalf(op, "could not delete existing file %s", name)
		}
	}

	dir := filepath.Dir(name)
	if info, err := os.Stat(dir); err != nil {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fatalf(op, "could not create output directory %s: %v", dir, err)
		}
	} else if !info.IsDir() {
		return "", fatalf(op, "%s is not a directory", dir)
	} else if unix.Access(dir, unix.W_OK) != nil {
		return "", fatalf(op, "output directory %s is not writable", dir)
	}

	// Idempotent within one command: a path staged by an earlier
	// option keeps its temp name.
	if temp, ok := r.txn.lookup(name); ok {
		return temp, nil
	}

	for i := 0; i < r.attempts; i++ {
		temp := name + "." + uuid.NewString()[:8]
		if _, err := os.Lstat(temp); err == nil {
			continue
		}
		r.txn.add(name, temp)
		return temp, nil
	}
	return "", fatalf(op, "no unique temp name for %s after %d attempts", name, r.attempts)
}
