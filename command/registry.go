// Package command implements the command bar's interpreter: a registry
// of named actions, completion lookup, and execution of ":"-prefixed
// input lines against a capability set.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"palette/capability"
	"palette/config"
	tool "palette/internal/tool"
)

// Env is the per-invocation context handed to command handlers: the
// capability set plus the tool registry and configuration. The
// interpreter itself holds no state beyond its registry.
type Env struct {
	Caps   *capability.Set
	Tools  *tool.Registry
	Config *config.Config
}

// HandlerFunc executes a command. rawArgs is the unparsed remainder of
// the input line. Returned errors are converted into failed results by
// the interpreter; handlers never surface raw panics to the caller.
type HandlerFunc func(ctx context.Context, rawArgs string, env *Env) (Result, error)

// Definition describes a registered command.
type Definition struct {
	Name        string
	Aliases     []string
	Description string
	Icon        string
	Handler     HandlerFunc
}

// Registry manages the available commands. Built once at startup and
// read-only afterwards.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Definition
	aliases  map[string]string
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Definition),
		aliases:  make(map[string]string),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def.Name == "" {
		return errors.New("command name cannot be empty")
	}
	if def.Handler == nil {
		return errors.New("command handler cannot be nil")
	}
	if _, exists := r.commands[def.Name]; exists {
		return fmt.Errorf("command %q already registered", def.Name)
	}
	if _, exists := r.aliases[def.Name]; exists {
		return fmt.Errorf("command %q collides with an alias", def.Name)
	}

	for _, alias := range def.Aliases {
		if _, exists := r.commands[alias]; exists {
			return fmt.Errorf("alias %q collides with a command", alias)
		}
		if _, exists := r.aliases[alias]; exists {
			return fmt.Errorf("alias %q already registered", alias)
		}
	}

	r.commands[def.Name] = def
	for _, alias := range def.Aliases {
		r.aliases[alias] = def.Name
	}
	return nil
}

// Resolve looks up a command by exact name or exact alias. Execution
// never falls back to fuzzy matching; ":d" must not silently run
// "delete".
func (r *Registry) Resolve(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.commands[name]; ok {
		return def, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.commands[canonical], true
	}
	return Definition{}, false
}

// Commands returns all registered definitions sorted by name.
func (r *Registry) Commands() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.commands))
	for _, def := range r.commands {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
