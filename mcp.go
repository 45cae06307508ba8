package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phobologic/modgen/internal/check"
	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/refactor"
	"github.com/phobologic/modgen/internal/toon"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the rename tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Info("serving MCP on stdio")
			return server.ServeStdio(a.newMCPServer())
		},
	}
}

func (a *app) newMCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		"modgen",
		version,
		server.WithInstructions(strings.Join([]string{
			"This server renames packages and classes in Java and Kotlin projects laid out as src/main/java and src/main/kotlin.",
			"The following tools are available:",
			"- rename_package: Move a package directory and rewrite its declarations and every reference.",
			"- rename_class: Rename a fully-qualified class, moving its file if the package changes.",
			"- list_refs: List every occurrence of a qualified name.",
			"- check: Report files whose package or type does not match their location.",
		}, "\n")),
		server.WithLogging(),
		server.WithRecovery(),
	)

	rootArg := mcp.WithString("root",
		mcp.Description("Project root directory. Defaults to the directory the server was started in."),
	)
	langArg := mcp.WithString("language",
		mcp.Description("java or kotlin. Defaults to the language whose source root exists."),
		mcp.Enum(lang.Names()...),
	)

	srv.AddTool(mcp.NewTool("rename_package",
		mcp.WithDescription("Renames a package: moves its directory, rewrites package declarations of the moved files and every reference in the project."),
		rootArg, langArg,
		mcp.WithString("old", mcp.Required(), mcp.Description("Current package, e.g. net.fabricmc.example")),
		mcp.WithString("new", mcp.Required(), mcp.Description("New package, e.g. com.acme.mod")),
	), a.handleRenamePackage)

	srv.AddTool(mcp.NewTool("rename_class",
		mcp.WithDescription("Renames a fully-qualified class and every reference to it."),
		rootArg, langArg,
		mcp.WithString("old", mcp.Required(), mcp.Description("Current class, e.g. com.acme.mod.ExampleMod")),
		mcp.WithString("new", mcp.Required(), mcp.Description("New class, e.g. com.acme.mod.AcmeMod")),
	), a.handleRenameClass)

	srv.AddTool(mcp.NewTool("list_refs",
		mcp.WithDescription("Lists every token-boundary occurrence of a qualified package or class name."),
		rootArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("Qualified name to search for")),
	), a.handleListRefs)

	srv.AddTool(mcp.NewTool("check",
		mcp.WithDescription("Reports package declarations that disagree with the directory layout and Java files missing their named type."),
		rootArg, langArg,
	), a.handleCheck)

	return srv
}

func stringArg(req mcp.CallToolRequest, name string) string {
	s, _ := req.Params.Arguments[name].(string)
	return s
}

// target resolves the root and language arguments shared by the tools.
func (a *app) target(req mcp.CallToolRequest) (string, *lang.Language, error) {
	sub := *a
	if r := stringArg(req, "root"); r != "" {
		sub.rootDir = r
	}
	if l := stringArg(req, "language"); l != "" {
		sub.langName = l
	}
	root, err := sub.projectRoot()
	if err != nil {
		return "", nil, err
	}
	l, err := sub.language(root)
	if err != nil {
		return "", nil, err
	}
	return root, l, nil
}

func (a *app) handleRenamePackage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, l, err := a.target(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := a.renamer(root, l).RenamePackage(stringArg(req, "old"), stringArg(req, "new"))
	if err != nil {
		a.logger.Warn("rename_package failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toon.EncodeReport(report)), nil
}

func (a *app) handleRenameClass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, l, err := a.target(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := a.renamer(root, l).RenameClass(stringArg(req, "old"), stringArg(req, "new"))
	if err != nil {
		a.logger.Warn("rename_class failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toon.EncodeReport(report)), nil
}

func (a *app) handleListRefs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub := *a
	if r := stringArg(req, "root"); r != "" {
		sub.rootDir = r
	}
	root, err := sub.projectRoot()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := stringArg(req, "name")
	refs, err := refactor.FindReferences(root, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toon.EncodeReferences(name, refs)), nil
}

func (a *app) handleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, l, err := a.target(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := check.Options{Logger: a.logger}
	if stringArg(req, "language") != "" {
		opts.Languages = []*lang.Language{l}
	}
	report, err := check.Run(root, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check: %v", err)), nil
	}
	return mcp.NewToolResultText(toon.EncodeCheck(report)), nil
}
