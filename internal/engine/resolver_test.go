package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestResolver() *resolver {
	return &resolver{
		txn:      newStaging(),
		attempts: 10,
		logf:     func(string, ...any) {},
	}
}

func TestResolveExecutable(t *testing.T) {
	r := newTestResolver()

	got, err := r.resolve("/bin/sh", roleExe)
	if err != nil {
		t.Fatalf("resolve(/bin/sh) failed: %v", err)
	}
	if got != "/bin/sh" {
		t.Errorf("directly executable path changed: %q", got)
	}

	got, err = r.resolve("sh", roleExe)
	if err != nil {
		t.Fatalf("resolve(sh) failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("search-path hit should be absolute, got %q", got)
	}

	_, err = r.resolve("definitely-not-a-real-binary-xyz", roleExe)
	if err == nil || !IsFatal(err) {
		t.Errorf("missing executable should be fatal, got %v", err)
	}
}

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "input.ts")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestResolver()

	got, err := r.resolve(present, roleIn)
	if err != nil {
		t.Fatalf("readable input failed: %v", err)
	}
	if got != present {
		t.Errorf("readable input changed: %q", got)
	}

	if _, err := r.resolve("relative/input.ts", roleIn); err == nil || !IsFatal(err) {
		t.Errorf("relative input should be fatal, got %v", err)
	}

	if _, err := r.resolve(filepath.Join(dir, "absent.ts"), roleCfg); err == nil || !IsFatal(err) {
		t.Errorf("missing config file should be fatal, got %v", err)
	}
}

func TestResolveInputFromStagedOutput(t *testing.T) {
	// An output declared earlier in the same command can be consumed
	// as an input before it physically exists.
	dir := t.TempDir()
	out := filepath.Join(dir, "intermediate.wav")

	r := newTestResolver()
	temp, err := r.resolve(out, roleOut)
	if err != nil {
		t.Fatalf("staging output failed: %v", err)
	}

	got, err := r.resolve(out, roleIn)
	if err != nil {
		t.Fatalf("resolving staged path as input failed: %v", err)
	}
	if got != temp {
		t.Errorf("staged input = %q, want temp path %q", got, temp)
	}
}

func TestResolveInputTransliteratedFallback(t *testing.T) {
	dir := t.TempDir()
	ascii := filepath.Join(dir, "Muenchen_Strasse.ts")
	if err := os.WriteFile(ascii, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestResolver()
	got, err := r.resolve(filepath.Join(dir, "München_Straße.ts"), roleIn)
	if err != nil {
		t.Fatalf("transliterated fallback failed: %v", err)
	}
	if got != ascii {
		t.Errorf("fallback = %q, want %q", got, ascii)
	}
}

func TestResolveOutputStagesUniqueTemp(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "final.mp4")

	r := newTestResolver()
	temp, err := r.resolve(out, roleOut)
	if err != nil {
		t.Fatalf("staging failed: %v", err)
	}

	if !strings.HasPrefix(temp, out+".") {
		t.Errorf("temp name %q is not derived from %q", temp, out)
	}
	if _, err := os.Lstat(temp); err == nil {
		t.Errorf("temp name %q already exists at staging time", temp)
	}
	if mapped, ok := r.txn.lookup(out); !ok || mapped != temp {
		t.Errorf("staging map entry = (%q, %v), want (%q, true)", mapped, ok, temp)
	}
}

func TestResolveOutputRemovesExistingFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "final.mp4")
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestResolver()
	if _, err := r.resolve(out, roleOut); err != nil {
		t.Fatalf("staging over existing file failed: %v", err)
	}
	if _, err := os.Lstat(out); err == nil {
		t.Error("pre-existing output file was not removed")
	}
}

func TestResolveOutputIdempotentWithinCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "final.mp4")

	r := newTestResolver()
	first, err := r.resolve(out, roleOut)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.resolve(out, roleOut)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated staging of one path gave %q then %q", first, second)
	}
}

func TestResolveOutputCreatesMissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "a", "b", "final.mp4")

	r := newTestResolver()
	if _, err := r.resolve(out, roleOut); err != nil {
		t.Fatalf("staging into missing directory failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(out)); err != nil || !info.IsDir() {
		t.Error("containing directory was not created")
	}
}

func TestResolveOutputRejectsRelativePath(t *testing.T) {
	r := newTestResolver()
	if _, err := r.resolve("relative/out.mp4", roleOut); err == nil || !IsFatal(err) {
		t.Errorf("relative output should be fatal, got %v", err)
	}
}

func TestResolveUnknownRole(t *testing.T) {
	r := newTestResolver()
	if _, err := r.resolve("/abs/x", "tmp"); err == nil || !IsFatal(err) {
		t.Errorf("unknown role should be fatal, got %v", err)
	}
}
