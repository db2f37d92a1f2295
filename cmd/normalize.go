package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"palette/normalize"
)

var (
	normalizeToolName string
	normalizeToolPath string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Render a raw tool result as readable Markdown",
	Long: `Read a JSON tool result from a file (or stdin when no file is
given) and print its normalized Markdown rendering. The --tool and
--path flags supply the invocation hint used to disambiguate raw
string results.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			os.Exit(1)
		}

		var raw interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			// Not JSON: treat the input as a plain string result.
			raw = string(data)
		}

		var hint *normalize.Hint
		if normalizeToolName != "" {
			hint = &normalize.Hint{ToolName: normalizeToolName}
			if normalizeToolPath != "" {
				hint.Args = map[string]interface{}{"path": normalizeToolPath}
			}
		}

		fmt.Println(normalize.Normalize(raw, hint))
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeToolName, "tool", "", "Name of the tool that produced the result")
	normalizeCmd.Flags().StringVar(&normalizeToolPath, "path", "", "Path argument of the tool invocation")
}
