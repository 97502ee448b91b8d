package jobfile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `
<job name="recording-42">
  <tasks>
    <task type="encoding" encoding="latin1">
      <option filetype="exe">ffmpeg</option>
      <option>-i</option>
      <option filetype="in">/abs/input.ts</option>
      <option quoted="no">-map 0:0 -map 0:1</option>
      <option filetype="out">/abs/out.mp4</option>
    </task>
    <task type="remux">
      <option filetype="exe">mkvmerge</option>
    </task>
  </tasks>
  <tasks>
    <task type="encoding">
      <option filetype="exe">ffmpeg</option>
    </task>
  </tasks>
</job>`

func TestParse(t *testing.T) {
	job, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if job.Name != "recording-42" {
		t.Errorf("job name = %q, want %q", job.Name, "recording-42")
	}
	if len(job.Groups) != 2 {
		t.Fatalf("got %d task groups, want 2", len(job.Groups))
	}

	first := job.Groups[0].Tasks[0]
	if first.Type != "encoding" || first.Encoding != "latin1" {
		t.Errorf("first task attrs = (%q, %q), want (encoding, latin1)", first.Type, first.Encoding)
	}
	if len(first.Options) != 5 {
		t.Fatalf("first task has %d options, want 5", len(first.Options))
	}
	if first.Options[0].FileType != "exe" || first.Options[0].Content != "ffmpeg" {
		t.Errorf("option 0 = %+v, want exe/ffmpeg", first.Options[0])
	}
	if first.Options[1].FileType != "" || first.Options[1].Content != "-i" {
		t.Errorf("option 1 = %+v, want plain -i", first.Options[1])
	}
	if first.Options[3].Quoted != "no" {
		t.Errorf("option 3 quoted = %q, want no", first.Options[3].Quoted)
	}
}

func TestFlattenKeepsDocumentOrder(t *testing.T) {
	job, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tasks := job.Flatten()
	if len(tasks) != 3 {
		t.Fatalf("got %d flattened tasks, want 3", len(tasks))
	}
	want := []string{"encoding", "remux", "encoding"}
	for i, tt := range tasks {
		if tt.Type != want[i] {
			t.Errorf("task %d type = %q, want %q", i, tt.Type, want[i])
		}
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("<job><tasks>")); err == nil {
		t.Error("expected error for truncated document")
	}
	if _, err := Parse([]byte("not xml at all")); err == nil {
		t.Error("expected error for non-XML input")
	}
}

func TestLoadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.xml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := LoadSource(path)
	if err != nil {
		t.Fatalf("LoadSource(path) failed: %v", err)
	}
	fromInline, err := LoadSource("  \n" + sampleDoc)
	if err != nil {
		t.Fatalf("LoadSource(inline) failed: %v", err)
	}
	if len(fromFile.Flatten()) != len(fromInline.Flatten()) {
		t.Error("file and inline sources parsed differently")
	}

	if _, err := LoadSource(filepath.Join(t.TempDir(), "absent.xml")); err == nil {
		t.Error("expected error for missing file")
	}
}
