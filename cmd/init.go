package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/config"
	"github.com/taskpulse/taskpulse/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new taskpulse directory",
	Long:  `Creates a taskpulse directory with config.yml and a wal/ subdirectory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "reinitialize an existing directory with default settings")
	initCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return clierr.Newf(clierr.InvalidInput, "already initialized in %s (use --force to reset the config)", absDir).
				WithDetails(map[string]any{"dir": absDir})
		}
		if err := confirmReinit(cmd, absDir); err != nil {
			return err
		}
	}

	cfg, err := config.Init(absDir)
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    absDir,
			"config": cfg.ConfigPath(),
			"data":   cfg.DataPath(),
			"wal":    cfg.WALPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized taskpulse in %s", absDir)
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Data:   %s", cfg.DataPath())
	output.Messagef(os.Stdout, "  WAL:    %s", cfg.WALPath())
	return nil
}

// confirmReinit asks before resetting an existing config. The task document
// is never touched; only config.yml is rewritten with defaults. In
// non-interactive contexts --yes must be passed explicitly.
func confirmReinit(cmd *cobra.Command, dir string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return clierr.Newf(clierr.ConfirmationReq,
			"reinitializing %s resets config.yml; pass --yes to confirm", dir).
			WithDetails(map[string]any{"dir": dir})
	}

	fmt.Fprintf(os.Stderr, "Reset config in %s to defaults? [y/N] ", dir)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return clierr.New(clierr.ConfirmationReq, "confirmation aborted")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return clierr.New(clierr.ConfirmationReq, "reinit canceled")
	}
}
