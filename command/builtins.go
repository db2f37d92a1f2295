package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"palette/capability"
	tool "palette/internal/tool"
	"palette/normalize"
)

// RegisterBuiltins installs the standard command set. The grep
// pseudo-command is deliberately absent: the interpreter intercepts it
// before registry lookup, so registering it here would only create an
// unreachable entry.
func RegisterBuiltins(registry *Registry) error {
	defs := []Definition{
		{
			Name:        "help",
			Aliases:     []string{"h", "?"},
			Description: "List available commands",
			Icon:        "❓",
			Handler:     cmdHelp(registry),
		},
		{
			Name:        "save",
			Description: "Save the current file",
			Icon:        "💾",
			Handler:     cmdSave,
		},
		{
			Name:        "saveAll",
			Description: "Save all open files",
			Icon:        "💾",
			Handler:     cmdSaveAll,
		},
		{
			Name:        "files",
			Description: "List open files",
			Icon:        "📂",
			Handler:     cmdFiles,
		},
		{
			Name:        "open",
			Aliases:     []string{"o"},
			Description: "Open a file: open <path>",
			Icon:        "📄",
			Handler:     cmdOpen,
		},
		{
			Name:        "format",
			Aliases:     []string{"fmt"},
			Description: "Format the current document",
			Icon:        "✨",
			Handler:     cmdFormat,
		},
		{
			Name:        "action",
			Description: "Run an editor action: action <id>",
			Icon:        "⚡",
			Handler:     cmdAction,
		},
		{
			Name:        "search",
			Description: "Search the project: search <pattern>",
			Icon:        "🔍",
			Handler:     cmdSearch,
		},
		{
			Name:        "panel",
			Description: "Show the search panel",
			Icon:        "🔍",
			Handler:     cmdPanel,
		},
		{
			Name:        "build",
			Aliases:     []string{"b"},
			Description: "Run a build: build [target]",
			Icon:        "🔨",
			Handler:     cmdBuild,
		},
		{
			Name:        "buildOutput",
			Description: "Show build output",
			Icon:        "🔨",
			Handler:     cmdBuildOutput,
		},
		{
			Name:        "set",
			Description: "Set a configuration value: set <key> <value>",
			Icon:        "⚙️",
			Handler:     cmdSet,
		},
		{
			Name:        "git",
			Description: "Show repository status",
			Icon:        "🌿",
			Handler:     cmdGit,
		},
		{
			Name:        "read",
			Aliases:     []string{"cat"},
			Description: "Read a workspace file: read <path>",
			Icon:        "📖",
			Handler:     cmdRead,
		},
		{
			Name:        "write",
			Description: "Write a workspace file: write <path> <content>",
			Icon:        "✏️",
			Handler:     cmdWrite,
		},
		{
			Name:        "ls",
			Description: "List a directory: ls [path]",
			Icon:        "📂",
			Handler:     cmdLs,
		},
		{
			Name:        "find",
			Description: "Search code through the tool registry: find <pattern>",
			Icon:        "🔍",
			Handler:     cmdFind,
		},
		{
			Name:        "sh",
			Aliases:     []string{"shell"},
			Description: "Run a shell command: sh <command>",
			Icon:        "💻",
			Handler:     cmdShell,
		},
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func cmdHelp(registry *Registry) HandlerFunc {
	return func(ctx context.Context, rawArgs string, env *Env) (Result, error) {
		var b strings.Builder
		b.WriteString("Available commands:\n")
		for _, def := range registry.Commands() {
			b.WriteString(fmt.Sprintf("  :%-12s %s", def.Name, def.Description))
			if len(def.Aliases) > 0 {
				b.WriteString(fmt.Sprintf(" (aliases: %s)", strings.Join(def.Aliases, ", ")))
			}
			b.WriteString("\n")
		}
		b.WriteString("  grep <pattern> Live search across the workspace\n")
		return okResult(strings.TrimRight(b.String(), "\n"), OutputText), nil
	}
}

func cmdSave(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.File == nil {
		return Result{}, errors.New("file operations are not available")
	}
	res, err := caps.File.SaveCurrentFile(ctx)
	if err != nil {
		return Result{}, err
	}
	return okResult(fmt.Sprintf("✅ Saved %s", res.Path), OutputToast), nil
}

func cmdSaveAll(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.File == nil {
		return Result{}, errors.New("file operations are not available")
	}
	res, err := caps.File.SaveAllFiles(ctx)
	if err != nil {
		return Result{}, err
	}
	return okResult(fmt.Sprintf("✅ Saved %d file(s)", res.Count), OutputToast), nil
}

func cmdFiles(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.File == nil {
		return Result{}, errors.New("file operations are not available")
	}
	files, err := caps.File.OpenedFiles(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return okResult("No files open.", OutputText), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d file(s) open:\n", len(files))
	for _, f := range files {
		marker := " "
		if f.IsDirty {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, f.Path)
	}
	return okResult(strings.TrimRight(b.String(), "\n"), OutputText), nil
}

func cmdOpen(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.File == nil {
		return Result{}, errors.New("file operations are not available")
	}
	path := strings.TrimSpace(rawArgs)
	if path == "" {
		return Result{}, errors.New("usage: open <path>")
	}
	f, err := caps.File.Open(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return okResult(fmt.Sprintf("Opened %s", f.Path), OutputToast), nil
}

func cmdFormat(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Editor == nil {
		return Result{}, errors.New("editor operations are not available")
	}
	res, err := caps.Editor.FormatDocument(ctx)
	if err != nil {
		return Result{}, err
	}
	if !res.Changed {
		return okResult(fmt.Sprintf("%s already formatted", res.Path), OutputToast), nil
	}
	return okResult(fmt.Sprintf("✨ Formatted %s (+%d/-%d lines)", res.Path, res.Insertions, res.Deletions), OutputToast), nil
}

func cmdAction(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Editor == nil {
		return Result{}, errors.New("editor operations are not available")
	}
	actionID := strings.TrimSpace(rawArgs)
	if actionID == "" {
		return Result{}, errors.New("usage: action <id>")
	}
	if err := caps.Editor.ExecuteAction(ctx, actionID); err != nil {
		return Result{}, err
	}
	return okResult(fmt.Sprintf("Ran action %s", actionID), OutputToast), nil
}

func cmdSearch(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Search == nil {
		return Result{}, errors.New("search is not available")
	}
	pattern := strings.TrimSpace(rawArgs)
	if pattern == "" {
		return Result{}, errors.New("usage: search <pattern>")
	}
	summary, err := caps.Search.SearchInProject(ctx, pattern)
	if err != nil {
		return Result{}, err
	}
	return okResult(formatSearchSummary(summary), OutputText), nil
}

func cmdPanel(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Search == nil {
		return Result{}, errors.New("search is not available")
	}
	if err := caps.Search.ShowSearchPanel(ctx); err != nil {
		return Result{}, err
	}
	return okResult("Search panel shown", OutputToast), nil
}

func cmdBuild(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Build == nil {
		return Result{}, errors.New("build is not available")
	}
	res, err := caps.Build.ExecuteBuild(ctx, strings.TrimSpace(rawArgs))
	if err != nil {
		return Result{}, err
	}
	return okResult(formatBuildResult(res), OutputHTML), nil
}

// formatBuildResult renders a build invocation through the normalizer so
// it shares the shell-result presentation.
func formatBuildResult(res capability.BuildResult) string {
	return normalize.Normalize(map[string]interface{}{
		"command":  res.Command,
		"stdout":   res.Stdout,
		"stderr":   res.Stderr,
		"exitCode": res.ExitCode,
	}, nil)
}

func cmdBuildOutput(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Build == nil {
		return Result{}, errors.New("build is not available")
	}
	if err := caps.Build.ShowBuildOutput(ctx); err != nil {
		return Result{}, err
	}
	return okResult("Build output shown", OutputToast), nil
}

func cmdSet(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Settings == nil {
		return Result{}, errors.New("settings are not available")
	}
	fields := strings.Fields(rawArgs)
	if len(fields) < 2 {
		return Result{}, errors.New("usage: set <key> <value>")
	}
	key := fields[0]
	value := strings.TrimSpace(strings.TrimPrefix(rawArgs, key))
	if err := caps.Settings.Set(ctx, key, value); err != nil {
		return Result{}, err
	}
	return okResult(fmt.Sprintf("Set %s = %s", key, value), OutputToast), nil
}

func cmdGit(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	caps, err := requireCaps(env)
	if err != nil {
		return Result{}, err
	}
	if caps.Git == nil {
		return Result{}, errors.New("git is not available")
	}
	status, err := caps.Git.Status(ctx)
	if err != nil {
		return Result{}, err
	}
	if status.IsClean {
		return okResult(fmt.Sprintf("🌿 %s — clean", status.Branch), OutputText), nil
	}
	return okResult(fmt.Sprintf("🌿 %s — %d staged, %d modified, %d untracked",
		status.Branch, status.Staged, status.Modified, status.Untracked), OutputText), nil
}

func cmdRead(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	path := strings.TrimSpace(rawArgs)
	if path == "" {
		return Result{}, errors.New("usage: read <path>")
	}
	args := map[string]interface{}{"path": path}
	out, err := invokeAndNormalize(ctx, env, "read_file", args)
	if err != nil {
		return Result{}, err
	}
	return okResult(out, OutputHTML), nil
}

func cmdWrite(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	path, content, ok := splitFirstField(rawArgs)
	if !ok {
		return Result{}, errors.New("usage: write <path> <content>")
	}
	args := map[string]interface{}{"path": path, "content": content}
	out, err := invokeAndNormalize(ctx, env, "write_file", args)
	if err != nil {
		return Result{}, err
	}
	return okResult(out, OutputHTML), nil
}

func cmdLs(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	args := map[string]interface{}{}
	if path := strings.TrimSpace(rawArgs); path != "" {
		args["path"] = path
	}
	out, err := invokeAndNormalize(ctx, env, "list_dir", args)
	if err != nil {
		return Result{}, err
	}
	return okResult(out, OutputHTML), nil
}

func cmdFind(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	pattern := strings.TrimSpace(rawArgs)
	if pattern == "" {
		return Result{}, errors.New("usage: find <pattern>")
	}
	args := map[string]interface{}{"pattern": pattern}
	out, err := invokeAndNormalize(ctx, env, "search_code", args)
	if err != nil {
		return Result{}, err
	}
	return okResult(out, OutputHTML), nil
}

func cmdShell(ctx context.Context, rawArgs string, env *Env) (Result, error) {
	cmdLine := strings.TrimSpace(rawArgs)
	if cmdLine == "" {
		return Result{}, errors.New("usage: sh <command>")
	}
	args := map[string]interface{}{"command": cmdLine}
	if env != nil && env.Config != nil && env.Config.ShellTimeoutSecs > 0 {
		args["timeout_seconds"] = env.Config.ShellTimeoutSecs
	}
	out, err := invokeAndNormalize(ctx, env, "run_shell", args)
	if err != nil {
		return Result{}, err
	}
	return okResult(out, OutputHTML), nil
}

// invokeAndNormalize runs a tool and renders its raw result through the
// normalizer, passing the tool name and arguments along as a hint.
func invokeAndNormalize(ctx context.Context, env *Env, toolName string, args map[string]interface{}) (string, error) {
	if env == nil || env.Tools == nil {
		return "", errors.New("tools are not available")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode arguments: %w", err)
	}
	res, err := env.Tools.Invoke(ctx, toolName, raw)
	if err != nil {
		return "", err
	}
	hint := &normalize.Hint{ToolName: toolName, Args: args}
	if env.Config != nil {
		hint.ExtraNoiseDirs = env.Config.ExtraNoiseDirs
	}
	rendered := normalize.Normalize(res, hint)
	return tool.ActivityLine(toolName, args) + "\n\n" + rendered, nil
}

// requireCaps guards handlers against a missing capability set.
func requireCaps(env *Env) (*capability.Set, error) {
	if env == nil || env.Caps == nil {
		return nil, errors.New("no capabilities available")
	}
	return env.Caps, nil
}

// splitFirstField splits rawArgs into its first whitespace-delimited
// field and the remainder (with leading whitespace trimmed).
func splitFirstField(rawArgs string) (first, rest string, ok bool) {
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		return "", "", false
	}
	i := strings.IndexAny(rawArgs, " \t")
	if i < 0 {
		return rawArgs, "", true
	}
	return rawArgs[:i], strings.TrimLeft(rawArgs[i+1:], " \t"), true
}
