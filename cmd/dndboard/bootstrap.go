package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/evanschultz/dndboard/internal/config"
)

// ensureStartupBootstrap asks for the comment author on first launch and persists it.
func ensureStartupBootstrap(configPath string, cfg config.Config, defaults config.Config, dbPath string, dbOverridden bool, input io.Reader, output io.Writer) (config.Config, error) {
	if strings.TrimSpace(cfg.Identity.Author) != "" {
		return cfg, nil
	}
	if input == nil {
		return config.Config{}, errors.New("bootstrap input is required")
	}
	if output == nil {
		output = io.Discard
	}

	reader := bufio.NewReader(input)
	_, _ = fmt.Fprintln(output, "dndboard setup required")
	author, err := promptRequiredBootstrapValue(reader, output, "Author name for comments: ", "author name is required")
	if err != nil {
		return config.Config{}, err
	}
	_, _ = fmt.Fprintln(output)

	if err := config.UpsertIdentity(configPath, author); err != nil {
		return config.Config{}, fmt.Errorf("persist identity config: %w", err)
	}
	reloaded, err := config.Load(configPath, defaults)
	if err != nil {
		return config.Config{}, fmt.Errorf("reload config %q: %w", configPath, err)
	}
	if dbOverridden {
		reloaded.Database.Path = dbPath
	}
	return reloaded, nil
}

// promptRequiredBootstrapValue reads one non-empty prompt value.
func promptRequiredBootstrapValue(reader *bufio.Reader, output io.Writer, prompt, emptyErr string) (string, error) {
	for {
		value, err := readBootstrapLine(reader, output, prompt)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		_, _ = fmt.Fprintln(output, emptyErr)
	}
}

// readBootstrapLine renders one prompt and returns the trimmed response.
func readBootstrapLine(reader *bufio.Reader, output io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(output, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
		return strings.TrimSpace(line), nil
	case errors.Is(err, io.EOF):
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return "", io.EOF
		}
		return trimmed, nil
	default:
		return "", fmt.Errorf("read prompt value: %w", err)
	}
}
