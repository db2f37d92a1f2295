package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"palette/workspace"
)

var (
	mu      sync.Mutex
	logPath string
)

// SetWorkspace directs the debug log into the workspace state directory.
func SetWorkspace(workspacePath string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = filepath.Join(workspace.StateDir(workspacePath), "debug.log")
}

func DumpAndDie(v any) {
	tea.ClearScreen() // exit alt screen to show output in terminal

	fmt.Println("====== DEBUG DUMP ======")
	fmt.Printf("%#v\n", v)
	fmt.Println("========================")

	os.Exit(1)
}

// LogToFile appends a formatted record to the workspace debug log.
// A no-op when no workspace has been set.
func LogToFile(v any) {
	mu.Lock()
	path := logPath
	mu.Unlock()
	if path == "" {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	logger := log.New(f, "[DEBUG] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("%#v", v)
}
