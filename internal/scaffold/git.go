package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Cloner fetches a template repository and initialises a fresh one.
type Cloner interface {
	Clone(ctx context.Context, url, dest string) error
	Init(ctx context.Context, dir string) error
}

// GitCloner implements Cloner with the git executable.
type GitCloner struct {
	Logger *zap.Logger
}

// Clone runs `git clone --depth 1 url dest`.
func (g GitCloner) Clone(ctx context.Context, url, dest string) error {
	return g.git(ctx, "", "clone", "--depth", "1", url, dest)
}

// Init runs `git init` in dir.
func (g GitCloner) Init(ctx context.Context, dir string) error {
	return g.git(ctx, dir, "init")
}

func (g GitCloner) git(ctx context.Context, dir string, args ...string) error {
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Debug("running git", zap.Strings("args", args), zap.String("dir", dir))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
		return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return nil
}
