package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"palette/capability"
)

type fakeSearch struct {
	summary capability.SearchSummary
	err     error
	panel   bool
}

func (f *fakeSearch) SearchInProject(ctx context.Context, pattern string) (capability.SearchSummary, error) {
	if f.err != nil {
		return capability.SearchSummary{}, f.err
	}
	s := f.summary
	s.Pattern = pattern
	return s, nil
}

func (f *fakeSearch) ShowSearchPanel(ctx context.Context) error {
	f.panel = true
	return nil
}

func newTestInterpreter(t *testing.T, defs ...Definition) *Interpreter {
	t.Helper()
	reg := NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	return NewInterpreter(reg)
}

func noopHandler(message string) HandlerFunc {
	return func(ctx context.Context, rawArgs string, env *Env) (Result, error) {
		return okResult(message, OutputToast), nil
	}
}

func TestExecute_ExactNameOnly(t *testing.T) {
	in := newTestInterpreter(t,
		Definition{Name: "save", Handler: noopHandler("saved")},
		Definition{Name: "saveAll", Handler: noopHandler("saved all")},
	)

	res := in.Execute(context.Background(), ":save", nil)
	if !res.Success || res.Message != "saved" {
		t.Fatalf("exact match failed: %+v", res)
	}

	// A prefix must never execute, even with an unambiguous completion.
	res = in.Execute(context.Background(), ":sav", nil)
	if res.Success {
		t.Fatalf("prefix should not execute: %+v", res)
	}
	if !strings.Contains(res.Message, "command not found") {
		t.Fatalf("unexpected failure message: %q", res.Message)
	}
	if res.OutputType != OutputError {
		t.Fatalf("expected error output type, got %q", res.OutputType)
	}
}

func TestExecute_AliasResolves(t *testing.T) {
	in := newTestInterpreter(t,
		Definition{Name: "quit", Aliases: []string{"q"}, Handler: noopHandler("bye")},
	)

	res := in.Execute(context.Background(), ":q", nil)
	if !res.Success || res.Message != "bye" {
		t.Fatalf("alias did not resolve: %+v", res)
	}
}

func TestExecute_BareColonIsNoOp(t *testing.T) {
	in := newTestInterpreter(t)

	for _, line := range []string{":", "  :  ", ""} {
		res := in.Execute(context.Background(), line, nil)
		if !res.Success {
			t.Fatalf("blank submission %q should succeed: %+v", line, res)
		}
		if res.Message != "" {
			t.Fatalf("blank submission %q should produce no message: %q", line, res.Message)
		}
	}
}

func TestExecute_HandlerErrorBecomesFailedResult(t *testing.T) {
	in := newTestInterpreter(t, Definition{
		Name: "boom",
		Handler: func(ctx context.Context, rawArgs string, env *Env) (Result, error) {
			return Result{}, errors.New("disk on fire")
		},
	})

	res := in.Execute(context.Background(), ":boom", nil)
	if res.Success {
		t.Fatalf("expected failure: %+v", res)
	}
	if res.Message != "disk on fire" {
		t.Fatalf("error text not surfaced: %q", res.Message)
	}
}

func TestExecute_HandlerPanicBecomesFailedResult(t *testing.T) {
	in := newTestInterpreter(t, Definition{
		Name: "crash",
		Handler: func(ctx context.Context, rawArgs string, env *Env) (Result, error) {
			panic("oops")
		},
	})

	res := in.Execute(context.Background(), ":crash", nil)
	if res.Success {
		t.Fatalf("expected failure: %+v", res)
	}
	if !strings.Contains(res.Message, "oops") {
		t.Fatalf("panic value not surfaced: %q", res.Message)
	}
}

func TestExecute_ArgsPassedVerbatim(t *testing.T) {
	var got string
	in := newTestInterpreter(t, Definition{
		Name: "echo",
		Handler: func(ctx context.Context, rawArgs string, env *Env) (Result, error) {
			got = rawArgs
			return okResult(rawArgs, OutputText), nil
		},
	})

	in.Execute(context.Background(), ":echo  hello   world ", nil)
	if got != "hello   world" {
		t.Fatalf("args mangled: %q", got)
	}
}

func TestExecute_GrepInterceptedBeforeRegistry(t *testing.T) {
	// A registered "grep" command must be unreachable: the pattern
	// interception runs first.
	called := false
	in := newTestInterpreter(t, Definition{
		Name: "grep",
		Handler: func(ctx context.Context, rawArgs string, env *Env) (Result, error) {
			called = true
			return okResult("registry grep", OutputText), nil
		},
	})

	search := &fakeSearch{summary: capability.SearchSummary{
		Count:   1,
		Matches: []capability.SearchMatch{{Path: "main.go", Line: 3, Text: "TODO fix"}},
	}}
	env := &Env{Caps: &capability.Set{Search: search}}

	res := in.Execute(context.Background(), ":grep TODO", env)
	if called {
		t.Fatalf("registered grep should be shadowed by interception")
	}
	if !res.Success {
		t.Fatalf("grep failed: %+v", res)
	}
	if !strings.Contains(res.Message, "main.go:3") {
		t.Fatalf("match not rendered: %q", res.Message)
	}
}

func TestExecute_BareGrepFallsThrough(t *testing.T) {
	in := newTestInterpreter(t)

	res := in.Execute(context.Background(), ":grep", nil)
	if res.Success {
		t.Fatalf("bare grep should fail resolution: %+v", res)
	}
	if !strings.Contains(res.Message, "command not found") {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestExecute_GrepSearchErrorSurfaces(t *testing.T) {
	in := newTestInterpreter(t)
	env := &Env{Caps: &capability.Set{Search: &fakeSearch{err: errors.New("index not ready")}}}

	res := in.Execute(context.Background(), ":grep foo", env)
	if res.Success || res.Message != "index not ready" {
		t.Fatalf("search error not surfaced: %+v", res)
	}
}

func TestExecute_TimestampSet(t *testing.T) {
	in := newTestInterpreter(t, Definition{Name: "noop", Handler: noopHandler("")})

	res := in.Execute(context.Background(), ":noop", nil)
	if res.Timestamp == 0 {
		t.Fatalf("timestamp not filled in")
	}
}
