package engine

import (
	"fmt"
	"os"
)

// staging is the output file map of a single task: real output path to
// staged temp path, in staging order. It lives exactly as long as one
// task execution and ends in either commit or rollback.
type staging struct {
	temp  map[string]string
	order []string
}

func newStaging() *staging {
	return &staging{temp: make(map[string]string)}
}

func (s *staging) lookup(real string) (string, bool) {
	t, ok := s.temp[real]
	return t, ok
}

func (s *staging) add(real, temp string) {
	if _, ok := s.temp[real]; !ok {
		s.order = append(s.order, real)
	}
	s.temp[real] = temp
}

// missing returns the staged temp paths that are not physically
// present on disk. A successful subprocess whose promised outputs are
// absent has lied about success.
func (s *staging) missing() []string {
	var absent []string
	for _, real := range s.order {
		if _, err := os.Stat(s.temp[real]); err != nil {
			absent = append(absent, s.temp[real])
		}
	}
	return absent
}

// commit renames every staged temp file onto its real path and clears
// the map. Committed entries stay in place even if a later rename
// fails; the remaining temps are rolled back by the caller.
func (s *staging) commit(logf func(format string, args ...any)) error {
	for len(s.order) > 0 {
		real := s.order[0]
		temp := s.temp[real]
		logf("renaming %s to %s", temp, real)
		if err := os.Rename(temp, real); err != nil {
			return fmt.Errorf("commit output %s: %w", real, err)
		}
		s.order = s.order[1:]
		delete(s.temp, real)
	}
	return nil
}

// rollback deletes every remaining staged temp file. Temps never
// survive a failed task.
func (s *staging) rollback(logf func(format string, args ...any)) {
	for _, real := range s.order {
		temp := s.temp[real]
		logf("deleting %s", temp)
		if err := os.Remove(temp); err != nil && !os.IsNotExist(err) {
			logf("could not delete %s: %v", temp, err)
		}
	}
	s.order = nil
	s.temp = make(map[string]string)
}
