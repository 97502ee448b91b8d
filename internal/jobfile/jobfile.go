// Package jobfile parses the XML job descriptions handed out by the
// tracker into an ordered, typed task list.
package jobfile

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Job is one declarative work order: an ordered list of task groups,
// each holding an ordered list of tasks. Immutable once parsed.
type Job struct {
	XMLName xml.Name    `xml:"job"`
	Name    string      `xml:"name,attr"`
	Groups  []TaskGroup `xml:"tasks"`
}

type TaskGroup struct {
	Tasks []Task `xml:"task"`
}

// Task is a single command execution unit. Options are positional:
// their order becomes argument order on the command line.
type Task struct {
	Type     string   `xml:"type,attr"`
	Encoding string   `xml:"encoding,attr"`
	Options  []Option `xml:"option"`
}

// Option is one argument-producing element of a task. FileType tags
// the content as a typed file reference (exe, in, cfg, out); an empty
// tag means a plain argument. Quoted set to "no" injects the content
// verbatim, bypassing all quoting.
type Option struct {
	FileType string `xml:"filetype,attr"`
	Quoted   string `xml:"quoted,attr"`
	Content  string `xml:",chardata"`
}

// Flatten returns the job's tasks across all groups in document order.
func (j *Job) Flatten() []Task {
	var tasks []Task
	for _, g := range j.Groups {
		tasks = append(tasks, g.Tasks...)
	}
	return tasks
}

// Parse decodes an XML job description.
func Parse(data []byte) (*Job, error) {
	var job Job
	if err := xml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job description: %w", err)
	}
	return &job, nil
}

// Load reads and parses a job description file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job description: %w", err)
	}
	return Parse(data)
}

// LoadSource accepts either an inline XML document or a filesystem
// path to one. A source whose first non-space byte is '<' is treated
// as an inline document.
func LoadSource(source string) (*Job, error) {
	if strings.HasPrefix(strings.TrimSpace(source), "<") {
		return Parse([]byte(source))
	}
	return Load(source)
}
