package engine

import (
	"strings"

	"github.com/j-licht/crs-scripts/internal/jobfile"
)

// builder turns the ordered option list of a task into a single shell
// command line, resolving typed file references as it goes. Building a
// command stages the task's output files as a side effect.
type builder struct {
	res   *resolver
	shell string
}

// Characters that force a token into a double-quoted wrapper.
const quoteTriggers = " []()"

func (b *builder) build(options []jobfile.Option) (string, error) {
	cmd := ""
	for _, opt := range options {
		if opt.Quoted == "no" {
			// Trusted escape hatch: the raw content goes in verbatim,
			// surrounded by single spaces, with no quoting at all.
			cmd += " " + opt.Content + " "
			continue
		}

		text := opt.Content
		if opt.FileType != "" {
			resolved, err := b.res.resolve(opt.Content, opt.FileType)
			if err != nil {
				return "", err
			}
			text = resolved
		}
		text = b.escape(text)

		// A token following an `OPTION=` style flag concatenates
		// directly onto it.
		if cmd != "" && !strings.HasSuffix(cmd, "=") && !strings.HasSuffix(cmd, " ") {
			cmd += " "
		}
		cmd += text
	}
	return strings.TrimPrefix(cmd, " "), nil
}

func (b *builder) escape(text string) string {
	if strings.ContainsAny(text, quoteTriggers) {
		t := b.replaceQuotes(text)
		t = strings.ReplaceAll(t, "$", `\$`)
		return `"` + t + `"`
	}
	if strings.Contains(text, `"`) {
		return b.replaceQuotes(text)
	}
	return text
}

// replaceQuotes neutralizes embedded double quotes: escaped with a
// backslash on a POSIX shell target, stripped on anything else.
func (b *builder) replaceQuotes(text string) string {
	if b.shell == "posix" {
		return strings.ReplaceAll(text, `"`, `\"`)
	}
	return strings.ReplaceAll(text, `"`, "")
}
