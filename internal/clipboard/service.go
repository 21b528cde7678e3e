package clipboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Service copies text to the system clipboard. A configured command takes
// precedence; otherwise atotto/clipboard is tried first and the platform's
// clipboard tools second.
type Service struct {
	command  string
	logger   *slog.Logger
	writeAll func(string) error
}

// NewService creates a new clipboard service. command is a shell-style
// command line that receives the text on stdin, e.g. "wl-copy" or
// "xclip -selection clipboard"; empty selects the defaults.
func NewService(command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command:  command,
		logger:   logger,
		writeAll: clipboard.WriteAll,
	}
}

// Write copies text to the clipboard
func (s *Service) Write(ctx context.Context, text string) error {
	if s.command != "" {
		parts := parseCommand(s.command)
		if len(parts) == 0 {
			return fmt.Errorf("invalid clipboard command: %q", s.command)
		}
		return s.run(ctx, parts, text)
	}

	err := s.writeAll(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "text_length", len(text))
		return nil
	}
	s.logger.Warn("failed to copy to clipboard using primary method", "error", err)

	parts, lookupErr := s.defaultCommand()
	if lookupErr != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return s.run(ctx, parts, text)
}

func (s *Service) run(ctx context.Context, parts []string, text string) error {
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)

	s.logger.Debug("attempting clipboard command", "command_parts", parts, "text_length", len(text))
	if err := cmd.Run(); err != nil {
		s.logger.Error("clipboard command failed", "error", err, "command", parts[0])
		return fmt.Errorf("clipboard command %s failed: %w", parts[0], err)
	}
	return nil
}

// defaultCommand picks the platform clipboard tool
func (s *Service) defaultCommand() ([]string, error) {
	switch runtime.GOOS {
	case "windows":
		return []string{"clip.exe"}, nil
	case "darwin":
		return []string{"pbcopy"}, nil
	case "linux":
		if isWSL() {
			return []string{"clip.exe"}, nil
		}
		switch {
		case commandExists("wl-copy"):
			return []string{"wl-copy"}, nil
		case commandExists("xclip"):
			return []string{"xclip", "-selection", "clipboard"}, nil
		case commandExists("xsel"):
			return []string{"xsel", "--clipboard", "--input"}, nil
		}
		return nil, fmt.Errorf("no clipboard tool found (install xclip, xsel, or wl-clipboard)")
	default:
		return nil, fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

// parseCommand parses a command string into executable parts, respecting quotes
func parseCommand(command string) []string {
	var parts []string
	var currentPart string
	var inQuotes bool
	var quoteChar rune

	for _, char := range command {
		switch {
		case char == '\'' || char == '"':
			if !inQuotes {
				inQuotes = true
				quoteChar = char
			} else if char == quoteChar {
				inQuotes = false
			} else {
				currentPart += string(char)
			}
		case char == ' ' && !inQuotes:
			if currentPart != "" {
				parts = append(parts, currentPart)
				currentPart = ""
			}
		default:
			currentPart += string(char)
		}
	}

	if currentPart != "" {
		parts = append(parts, currentPart)
	}

	return parts
}

// isWSL checks if the application is running in Windows Subsystem for Linux
func isWSL() bool {
	versionBytes, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(versionBytes))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// commandExists checks if a command exists on the system
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
