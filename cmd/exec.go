package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"palette/config"
	"palette/indexer"
	"palette/workspace"
)

var execCmd = &cobra.Command{
	Use:   "exec [command line]",
	Short: "Run one command without the interactive bar",
	Long: `Run a single ":"-prefixed command line and print its result,
for example: palette exec ':sh ls -la' or palette exec ':grep TODO'`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		line := strings.Join(args, " ")

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

		idx := indexer.NewIndex(workspacePath, cfg.MaxIndexedFileSize)
		idx.AddSkipDirs(cfg.ExtraNoiseDirs...)
		if err := idx.Build(); err != nil {
			fmt.Printf("Error building index: %v\n", err)
			os.Exit(1)
		}

		interp, env, err := buildEnvironment(workspacePath, cfg, idx)
		if err != nil {
			fmt.Printf("Error setting up commands: %v\n", err)
			os.Exit(1)
		}

		result := interp.Execute(cmd.Context(), line, env)
		if result.Message != "" {
			fmt.Println(result.Message)
		}
		if !result.Success {
			os.Exit(1)
		}
	},
}
