package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"palette/debug"
)

// OutputType hints how a result should be presented.
type OutputType string

const (
	OutputToast OutputType = "toast"
	OutputError OutputType = "error"
	OutputHTML  OutputType = "html"
	OutputText  OutputType = "text"
)

// Result is the immutable outcome of one command submission. A new
// submission supersedes it entirely.
type Result struct {
	Success    bool
	Message    string
	OutputType OutputType
	Timestamp  int64 // unix milliseconds
}

func okResult(message string, outputType OutputType) Result {
	return Result{Success: true, Message: message, OutputType: outputType, Timestamp: nowMillis()}
}

func errResult(message string) Result {
	return Result{Success: false, Message: message, OutputType: OutputError, Timestamp: nowMillis()}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Interpreter parses ":"-prefixed input lines and dispatches them
// against its registry. It owns no state beyond the registry reference;
// capabilities arrive fresh with every invocation.
type Interpreter struct {
	registry *Registry
}

// NewInterpreter creates an interpreter over a registry.
func NewInterpreter(registry *Registry) *Interpreter {
	return &Interpreter{registry: registry}
}

// Registry exposes the underlying registry for suggestion lookups.
func (in *Interpreter) Registry() *Registry {
	return in.registry
}

// Execute parses and runs one input line. Failures of any kind — an
// unknown command, a handler error, even a handler panic — come back as
// a failed Result; Execute never propagates an exception to its caller.
//
// Resolution order: the grep pseudo-command is matched by pattern and
// intercepted before any registry lookup, so a registered "grep" command
// would be unreachable through Execute. Everything else resolves by
// exact name or alias.
func (in *Interpreter) Execute(ctx context.Context, line string, env *Env) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogToFile(fmt.Sprintf("panic in command %q: %v", line, r))
			result = errResult(fmt.Sprintf("command panicked: %v", r))
		}
	}()

	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))

	// A bare ":" or whitespace submission is a no-op, not an error.
	if body == "" {
		return okResult("", OutputText)
	}

	if pattern, ok := MatchLiveGrep(body); ok {
		return in.executeGrep(ctx, pattern, env)
	}

	name := body
	rawArgs := ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		name = body[:i]
		rawArgs = strings.TrimSpace(body[i+1:])
	}

	def, ok := in.registry.Resolve(name)
	if !ok {
		return errResult(fmt.Sprintf("command not found: %s", name))
	}

	res, err := def.Handler(ctx, rawArgs, env)
	if err != nil {
		return errResult(err.Error())
	}
	if res.Timestamp == 0 {
		res.Timestamp = nowMillis()
	}
	return res
}

// executeGrep dispatches an intercepted grep submission to the search
// capability.
func (in *Interpreter) executeGrep(ctx context.Context, pattern string, env *Env) Result {
	if env == nil || env.Caps == nil || env.Caps.Search == nil {
		return errResult("search is not available")
	}

	summary, err := env.Caps.Search.SearchInProject(ctx, pattern)
	if err != nil {
		return errResult(err.Error())
	}
	return okResult(formatSearchSummary(summary), OutputText)
}
