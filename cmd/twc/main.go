package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"twc/internal/config"
	"twc/internal/log"
	"twc/internal/tui"
)

var version = "dev"

func main() {
	var configPath string
	var debug bool
	var logFile string

	rootCmd := &cobra.Command{
		Use:     "twc",
		Short:   "A twin-panel terminal file manager",
		Long:    "twc shows two directory panels side by side for browsing, sorting and moving files between them.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetDebug(debug)
			if logFile != "" {
				if err := log.ToFile(logFile); err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
			}

			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			program := tea.NewProgram(tui.New(cfg, path), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "configuration file (default ~/.config/twc/config.toml)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
