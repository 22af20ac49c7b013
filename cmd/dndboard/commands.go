package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanschultz/dndboard/internal/app"
	"github.com/evanschultz/dndboard/internal/domain"
)

// snapshot formats accepted by export and import.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// newPathsCommand prints the resolved config and data locations.
func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			_, _ = fmt.Fprintf(out, "backups: %s\n", paths.BackupDir)
			return nil
		},
	}
}

// newExportCommand writes the current board snapshot.
func newExportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		outPath string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board snapshot as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, "export", stderr, func(ctx context.Context, rt *runtimeEnv) error {
				return runExport(rt.store.Snapshot(), outPath, format, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	cmd.Flags().StringVar(&format, "format", formatJSON, "snapshot format (json|yaml)")
	return cmd
}

// newImportCommand replaces the board with a snapshot file.
func newImportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the board with a JSON or YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return fmt.Errorf("--in is required")
			}
			return withRuntime(cmd.Context(), opts, "import", stderr, func(ctx context.Context, rt *runtimeEnv) error {
				return runImport(ctx, rt.store, inPath)
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot file (.json, .yaml or .yml)")
	return cmd
}

// newResetCommand restores the seed board after backing up the current one.
func newResetCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		backupDir string
		noBackup  bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Back up the board and restore the demo board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, "reset", stderr, func(ctx context.Context, rt *runtimeEnv) error {
				if !noBackup {
					dir := backupDir
					if strings.TrimSpace(dir) == "" {
						dir = rt.paths.BackupDir
					}
					path, err := writeBackup(rt.store.Snapshot(), dir, rt.store.Key(), time.Now().UTC())
					if err != nil {
						return err
					}
					rt.logger.Info("board backup written", "path", path)
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "backup: %s\n", path)
				}
				if err := rt.store.Reset(ctx); err != nil {
					return fmt.Errorf("reset board: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "directory for the pre-reset backup (defaults to the data dir)")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the pre-reset backup")
	return cmd
}

// withRuntime opens the runtime for one CLI command and logs its flow.
func withRuntime(ctx context.Context, opts *rootOptions, command string, stderr io.Writer, fn func(context.Context, *runtimeEnv) error) error {
	rt, err := openRuntime(ctx, opts, command, stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("command flow start", "command", command)
	if err := fn(ctx, rt); err != nil {
		rt.logger.Error("command flow failed", "command", command, "err", err)
		return fmt.Errorf("run %s command: %w", command, err)
	}
	rt.logger.Info("command flow complete", "command", command)
	return nil
}

// runExport encodes board and writes it to outPath or stdout.
func runExport(board domain.Board, outPath, format string, stdout io.Writer) error {
	var (
		encoded []byte
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatJSON, "":
		encoded, err = app.EncodeSnapshot(board)
		if err == nil {
			encoded = append(encoded, '\n')
		}
	case formatYAML, "yml":
		encoded, err = app.EncodeSnapshotYAML(board)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return err
	}

	if outPath == "-" || outPath == "" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport decodes inPath and replaces the stored board.
func runImport(ctx context.Context, store *app.Store, inPath string) error {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	snap, err := decodeImport(inPath, content)
	if err != nil {
		return err
	}
	if err := store.ReplaceBoard(ctx, snap.Board()); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

// decodeImport picks the decoder from the file extension, sniffing the content when there is none.
func decodeImport(path string, content []byte) (app.PersistedState, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return app.DecodeSnapshotYAML(content)
	case ".json":
		return app.DecodeSnapshot(content)
	}
	if trimmed := bytes.TrimSpace(content); len(trimmed) > 0 && trimmed[0] == '{' {
		return app.DecodeSnapshot(content)
	}
	return app.DecodeSnapshotYAML(content)
}

// writeBackup stores board as a timestamped JSON snapshot under dir.
func writeBackup(board domain.Board, dir, key string, now time.Time) (string, error) {
	encoded, err := app.EncodeSnapshot(board)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.json", sanitizeLogFileStem(key), now.Format("20060102T150405Z"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return path, nil
}
