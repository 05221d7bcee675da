package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"deskcalc/internal/keypad"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskcalc [flags]\n\nA four-function desk calculator in the terminal.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	logFile := flag.String("log", "", "write debug logs to this file (default: no logging)")
	flag.Parse()

	if err := run(*logFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(logFile string) error {
	logger, err := newLogger(logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p := tea.NewProgram(keypad.New(logger))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("keypad: %w", err)
	}
	return nil
}

// newLogger logs to a file because the terminal belongs to the keypad.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return logger, nil
}
