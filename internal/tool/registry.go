// Package tool implements the external operations the command bar can
// invoke: file reads and writes, directory listings, and shell commands.
// Tool handlers return raw, loosely shaped values; callers are expected
// to pass them through the normalizer before display.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Definition describes an invocable tool.
type Definition struct {
	Name        string
	Description string
	// Safe tools have no side effects beyond reading; unsafe tools write
	// files or execute commands.
	Safe    bool
	Handler func(ctx context.Context, raw json.RawMessage) (interface{}, error)
}

// Registry manages the available tools. Read-only after startup
// registration; the lock guards against misuse, not a concurrent
// mutation path.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Definition
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Definition),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	if def.Handler == nil {
		return errors.New("tool handler cannot be nil")
	}

	r.tools[def.Name] = def
	return nil
}

// Get retrieves a tool definition by name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.tools[name]
	return def, ok
}

// Tools returns all registered tool definitions.
func (r *Registry) Tools() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.tools))
	for _, def := range r.tools {
		defs = append(defs, def)
	}
	return defs
}

// Invoke executes a tool by name with the given arguments.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	r.mu.RLock()
	def, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}

	// Default empty args to an empty JSON object for tools that accept
	// optional params
	if len(args) == 0 {
		args = json.RawMessage([]byte("{}"))
	}

	return def.Handler(ctx, args)
}

// ActivityLine returns a short, human-readable description of a tool
// invocation for display above its result.
func ActivityLine(name string, args map[string]interface{}) string {
	path, _ := args["path"].(string)
	switch name {
	case "read_file":
		if path != "" {
			return fmt.Sprintf("READING %s", path)
		}
		return "READING file"
	case "write_file":
		if path != "" {
			return fmt.Sprintf("WRITING %s", path)
		}
		return "WRITING file"
	case "list_dir":
		if path != "" {
			return fmt.Sprintf("LISTING %s", path)
		}
		return "LISTING ."
	case "run_shell":
		if cmd, ok := args["command"].(string); ok && cmd != "" {
			return fmt.Sprintf("RUNNING %s", cmd)
		}
		return "RUNNING command"
	case "search_code":
		if pattern, ok := args["pattern"].(string); ok && pattern != "" {
			return fmt.Sprintf("SEARCHING %s", pattern)
		}
		return "SEARCHING"
	default:
		return fmt.Sprintf("USING TOOL %s", name)
	}
}

// RegisterAll registers the standard tool set rooted at the workspace.
func RegisterAll(registry *Registry, workspacePath string) error {
	if err := RegisterReadFile(registry, workspacePath); err != nil {
		return err
	}
	if err := RegisterWriteFile(registry, workspacePath); err != nil {
		return err
	}
	if err := RegisterListDir(registry, workspacePath); err != nil {
		return err
	}
	if err := RegisterSearchCode(registry, workspacePath); err != nil {
		return err
	}
	return RegisterRunShell(registry, workspacePath)
}
