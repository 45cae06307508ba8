package refactor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type stepKind int

const (
	stepRename stepKind = iota
	stepMkdir
	stepRmdir
	stepWrite
)

func (k stepKind) String() string {
	switch k {
	case stepRename:
		return "rename"
	case stepMkdir:
		return "mkdir"
	case stepRmdir:
		return "rmdir"
	case stepWrite:
		return "write"
	}
	return "unknown"
}

type step struct {
	kind     stepKind
	path     string // target of mkdir, rmdir, write; source of rename
	to       string // rename destination
	original []byte // content before a write
	mode     fs.FileMode
}

// journal performs filesystem mutations and remembers how to undo them.
// Undo replays the steps backwards.
type journal struct {
	steps  []step
	logger *zap.Logger
}

func newJournal(logger *zap.Logger) *journal {
	return &journal{logger: logger}
}

func (j *journal) rename(from, to string) error {
	if err := os.Rename(from, to); err != nil {
		return err
	}
	j.steps = append(j.steps, step{kind: stepRename, path: from, to: to})
	j.logger.Debug("moved", zap.String("from", from), zap.String("to", to))
	return nil
}

// mkdirAll creates dir and any missing parents, recording each created
// directory so undo removes exactly those.
func (j *journal) mkdirAll(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		_, err := os.Stat(d)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	for i := len(missing) - 1; i >= 0; i-- {
		if err := os.Mkdir(missing[i], 0o755); err != nil {
			return err
		}
		j.recordMkdir(missing[i])
	}
	return nil
}

// recordMkdir registers a directory created outside the journal.
func (j *journal) recordMkdir(dir string) {
	j.steps = append(j.steps, step{kind: stepMkdir, path: dir})
}

// rmdir removes an empty directory.
func (j *journal) rmdir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if err := os.Remove(dir); err != nil {
		return err
	}
	j.steps = append(j.steps, step{kind: stepRmdir, path: dir, mode: info.Mode().Perm()})
	j.logger.Debug("removed empty directory", zap.String("path", dir))
	return nil
}

// writeFile replaces the content of an existing file, keeping its mode.
func (j *journal) writeFile(path string, original, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if err := os.WriteFile(path, data, mode); err != nil {
		return err
	}
	j.steps = append(j.steps, step{kind: stepWrite, path: path, original: original, mode: mode})
	return nil
}

func (j *journal) count() int {
	return len(j.steps)
}

// undo reverts every recorded step, newest first. It keeps going after a
// failure and returns all failures joined.
func (j *journal) undo() error {
	var errs []error
	for i := len(j.steps) - 1; i >= 0; i-- {
		s := j.steps[i]
		var err error
		switch s.kind {
		case stepRename:
			err = os.Rename(s.to, s.path)
		case stepMkdir:
			err = os.Remove(s.path)
		case stepRmdir:
			err = os.Mkdir(s.path, s.mode)
		case stepWrite:
			err = os.WriteFile(s.path, s.original, s.mode)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("undo %s %s: %w", s.kind, s.path, err))
		}
	}
	j.steps = nil
	return errors.Join(errs...)
}
