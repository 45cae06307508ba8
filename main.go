// modgen scaffolds Fabric mods and renames Java and Kotlin packages and
// classes across a project tree.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phobologic/modgen/internal/config"
	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/refactor"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	defer a.sync()
	return cmd.ExecuteContext(context.Background())
}

// app carries global flags and the state built from them for subcommands.
type app struct {
	stdout, stderr io.Writer

	rootDir    string
	langName   string
	configPath string
	verbose    bool
	noRollback bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modgen",
		Short: "Scaffold Fabric mods and rename Java/Kotlin packages and classes",
		Long: `modgen keeps directories, file names, declarations and references in sync
when a package or class of a Java or Kotlin project is renamed.

Examples:
  modgen package net.fabricmc.example com.acme.mod
  modgen class com.acme.mod.ExampleMod com.acme.mod.AcmeMod
  modgen refs com.acme.mod
  modgen new ./acme-mod --id acme-mod --main com.acme.mod.AcmeMod --name "Acme Mod"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	cmd.SetVersionTemplate("modgen {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.rootDir, "root", "C", ".", "project root directory")
	pf.StringVarP(&a.langName, "lang", "l", "", "source language: java or kotlin (default: detected from the project)")
	pf.StringVar(&a.configPath, "config", "", "config file (default: .modgen.yaml in the working or home directory)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVar(&a.noRollback, "no-rollback", false, "leave a half-applied rename in place when it fails")
	cmd.Flags().BoolP("version", "V", false, "show version and exit")

	cmd.AddCommand(
		newPackageCmd(a),
		newClassCmd(a),
		newRefsCmd(a),
		newCheckCmd(a),
		newNewCmd(a),
		newMCPCmd(a),
		newInitCmd(a),
	)
	return cmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.Log, a.verbose, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newLogger builds a zap logger writing to w, in JSON for the "json" format
// and human-readable otherwise.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionConfig().EncoderConfig)
	} else {
		ec := zap.NewDevelopmentConfig().EncoderConfig
		ec.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)), nil
}

// projectRoot resolves --root to an existing directory.
func (a *app) projectRoot() (string, error) {
	root, err := filepath.Abs(a.rootDir)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", root)
	}
	return root, nil
}

// language picks --lang, else the one language whose source root exists
// under root, else the configured default.
func (a *app) language(root string) (*lang.Language, error) {
	if a.langName != "" {
		return lang.Lookup(a.langName)
	}
	if root != "" {
		if l, err := lang.Detect(root); err == nil {
			return l, nil
		}
	}
	return lang.Lookup(a.cfg.Language)
}

func (a *app) renamer(root string, l *lang.Language) *refactor.Renamer {
	return refactor.New(root, l, refactor.Options{
		Logger:     a.logger,
		NoRollback: a.noRollback || !a.cfg.Rollback,
	})
}
