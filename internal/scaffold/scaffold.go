// Package scaffold creates a new Fabric mod project from a template
// repository and renames it after the new mod.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"github.com/phobologic/modgen/internal/config"
	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/model"
	"github.com/phobologic/modgen/internal/qname"
	"github.com/phobologic/modgen/internal/refactor"
)

const resourcesDir = "src/main/resources"

// Fabric mod ids: lowercase, start with a letter, 2 to 64 characters.
var modIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,63}$`)

// Options describes the mod to create.
type Options struct {
	Path      string // must not exist yet
	ModID     string
	MainClass string // fully qualified, at least group.basename.Class
	Name      string // human-readable
	Language  *lang.Language
}

// Creator builds projects from the templates in Config.
type Creator struct {
	Cloner     Cloner
	Config     *config.Config
	Logger     *zap.Logger
	NoRollback bool
}

// NewCreator returns a Creator that clones with git.
func NewCreator(cfg *config.Config, logger *zap.Logger) *Creator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Creator{
		Cloner:     GitCloner{Logger: logger},
		Config:     cfg,
		Logger:     logger,
		NoRollback: !cfg.Rollback,
	}
}

// Create clones the template for opts.Language into opts.Path, starts a new
// git history and renames the template's package, main class, mixin config
// and metadata after the new mod. It returns the rename reports.
func (c *Creator) Create(ctx context.Context, opts Options) ([]*model.Report, error) {
	const op = "create mod"
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Language == nil {
		return nil, errors.New("create mod: no language")
	}
	if !modIDPattern.MatchString(opts.ModID) {
		return nil, &refactor.Error{Kind: refactor.KindMalformedName, Op: op, Path: opts.ModID,
			Err: errors.New("mod id must be 2-64 lowercase letters, digits, '-' or '_', starting with a letter")}
	}
	mainClass, err := qname.Parse(opts.MainClass)
	if err != nil {
		return nil, &refactor.Error{Kind: refactor.KindMalformedName, Op: op, Path: opts.MainClass, Err: err}
	}
	if mainClass.Len() < 3 {
		return nil, &refactor.Error{Kind: refactor.KindMalformedName, Op: op, Path: opts.MainClass,
			Err: fmt.Errorf("%w: need group, base name and class", qname.ErrMalformed)}
	}
	newPkg, _ := mainClass.Parent()
	group, _ := newPkg.Parent()

	tmpl := c.Config.Template
	tmplPkg, err := qname.Parse(tmpl.Package)
	if err != nil {
		return nil, fmt.Errorf("template package: %w", err)
	}
	url, err := c.Config.TemplateURL(opts.Language)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(opts.Path); err == nil {
		return nil, &refactor.Error{Kind: refactor.KindConflict, Op: op, Path: opts.Path, Err: fs.ErrExist}
	}

	ctx, cancel := context.WithTimeout(ctx, tmpl.GitTimeout)
	defer cancel()

	logger.Info("cloning template", zap.String("url", url), zap.String("path", opts.Path))
	if err := c.Cloner.Clone(ctx, url, opts.Path); err != nil {
		return nil, fmt.Errorf("cloning template: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(opts.Path, ".git")); err != nil {
		return nil, fmt.Errorf("removing template history: %w", err)
	}
	if err := c.Cloner.Init(ctx, opts.Path); err != nil {
		return nil, fmt.Errorf("initialising repository: %w", err)
	}

	r := refactor.New(opts.Path, opts.Language, refactor.Options{Logger: logger, NoRollback: c.NoRollback})
	pkgReport, err := r.RenamePackage(tmplPkg.String(), newPkg.String())
	if err != nil {
		return nil, err
	}
	classReport, err := r.RenameClass(newPkg.Child(tmpl.Class).String(), mainClass.String())
	if err != nil {
		return nil, err
	}

	mixinName, err := c.updateMixinConfig(opts.Path, opts.ModID, tmplPkg, newPkg, logger)
	if err != nil {
		return nil, err
	}

	edit := manifestEdit{
		modID:      opts.ModID,
		name:       opts.Name,
		oldMain:    tmplPkg.Child(tmpl.Class),
		newMain:    mainClass,
		oldPackage: tmplPkg,
		newPackage: newPkg,
		oldMixin:   tmpl.MixinConfig,
		newMixin:   mixinName,
	}
	if err := updateModManifest(filepath.Join(opts.Path, resourcesDir, "fabric.mod.json"), edit); err != nil {
		return nil, err
	}

	err = updateGradleProperties(filepath.Join(opts.Path, "gradle.properties"),
		tmpl.Group, group.String(), tmpl.BaseName, newPkg.Last())
	if err != nil {
		return nil, err
	}

	logger.Info("created mod",
		zap.String("id", opts.ModID),
		zap.String("main", mainClass.String()),
		zap.String("path", opts.Path))
	return []*model.Report{pkgReport, classReport}, nil
}

// updateMixinConfig renames the template mixin config after the mod id and
// points its package at the renamed one. It returns the new file name, or
// the template's when the template ships no mixin config.
func (c *Creator) updateMixinConfig(root, modID string, oldPkg, newPkg qname.Name, logger *zap.Logger) (string, error) {
	oldName := c.Config.Template.MixinConfig
	newName := modID + ".mixins.json"
	oldPath := filepath.Join(root, resourcesDir, oldName)
	newPath := filepath.Join(root, resourcesDir, newName)

	if _, err := os.Stat(oldPath); errors.Is(err, fs.ErrNotExist) {
		logger.Debug("template has no mixin config", zap.String("path", oldPath))
		return oldName, nil
	}
	if oldPath != newPath {
		if _, err := os.Stat(newPath); err == nil {
			return "", &refactor.Error{Kind: refactor.KindConflict, Op: "rename mixin config", Path: newName, Err: fs.ErrExist}
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			return "", fmt.Errorf("renaming mixin config: %w", err)
		}
	}
	if err := updateMixinPackage(newPath, oldPkg, newPkg); err != nil {
		return "", err
	}
	return newName, nil
}
