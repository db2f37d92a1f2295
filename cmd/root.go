package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"palette/capability"
	"palette/command"
	"palette/config"
	"palette/debug"
	"palette/indexer"
	"palette/internal/tool"
	"palette/tui"
	"palette/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "palette",
	Short: "Palette is a terminal command bar for your workspace",
	Long: `Palette runs inside any project folder and gives you a single
":"-prefixed command bar: save and format files, search the project,
run builds and shell commands, and see every result as readable output.`,
	Run: func(cmd *cobra.Command, args []string) {
		workspacePath, err := workspace.Detect()
		if err != nil {
			fmt.Printf("Error detecting workspace: %v\n", err)
			os.Exit(1)
		}

		cfg, err := config.LoadConfig(workspacePath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := workspace.EnsureStateDir(workspacePath); err != nil {
			fmt.Printf("Error creating %s directory: %v\n", workspace.StateDirName, err)
			os.Exit(1)
		}
		debug.SetWorkspace(workspacePath)

		idx := indexer.NewIndex(workspacePath, cfg.MaxIndexedFileSize)
		idx.AddSkipDirs(cfg.ExtraNoiseDirs...)
		if err := idx.Build(); err != nil {
			fmt.Printf("Error building index: %v\n", err)
			os.Exit(1)
		}

		if err := idx.StartWatching(); err != nil {
			fmt.Printf("Warning: could not start file watching: %v\n", err)
			// Continue anyway; the index is just frozen at startup state.
		} else {
			defer idx.StopWatching()
		}

		interp, env, err := buildEnvironment(workspacePath, cfg, idx)
		if err != nil {
			fmt.Printf("Error setting up commands: %v\n", err)
			os.Exit(1)
		}

		if err := tui.Run(workspacePath, cfg, interp, env, idx); err != nil {
			fmt.Printf("Error running command bar: %v\n", err)
			os.Exit(1)
		}
	},
}

// buildEnvironment wires the capability set, tool registry, and command
// registry for one workspace.
func buildEnvironment(workspacePath string, cfg *config.Config, idx *indexer.Index) (*command.Interpreter, *command.Env, error) {
	fileStore := capability.NewFileStore(workspacePath)

	caps := &capability.Set{
		File:     fileStore,
		Editor:   capability.NewEditorHost(workspacePath, fileStore),
		Search:   capability.NewSearcher(idx),
		Build:    capability.NewBuildRunner(workspacePath, time.Duration(cfg.ShellTimeoutSecs)*time.Second),
		Settings: &capability.SettingsStub{},
		Git:      capability.NewGitInspector(workspacePath),
	}

	tools := tool.NewRegistry()
	if err := tool.RegisterAll(tools, workspacePath); err != nil {
		return nil, nil, err
	}

	registry := command.NewRegistry()
	if err := command.RegisterBuiltins(registry); err != nil {
		return nil, nil, err
	}

	return command.NewInterpreter(registry), &command.Env{
		Caps:   caps,
		Tools:  tools,
		Config: cfg,
	}, nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(normalizeCmd)
}
