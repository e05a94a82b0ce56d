// Package main is the CLI entry point for resguard.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/resguard/resguard/internal/config"
	"github.com/resguard/resguard/internal/daemon"
	"github.com/resguard/resguard/internal/infra"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "resguard",
	Short: "Display resolution guard - keeps your display mode where you set it",
	Long: `resguard watches the active display mode and restores the configured
resolution, color depth and refresh rate whenever something changes it
behind your back (a game, a flaky driver, a TV handshake).

It polls the display, debounces transient flicker, and corrects persistent
drift. A global hotkey forces an immediate correction at any time.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the enforcement engine",
	Long: `Runs the monitor/correct loop in the foreground, logging to the console.
With --background, re-launches itself as a detached process and returns
immediately; the daemon then logs to a file under the user cache dir.`,
	RunE: runRun,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Apply the configured display mode once and exit",
	Long: `Reads the current display mode and, if it differs from the configured
target, applies the target once. No daemon, no polling.`,
	RunE: runSet,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether resguard is running and what it enforces",
	RunE:  runStatus,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

// Hidden daemon command - the detached child spawned by `run --background`.
var daemonCmd = &cobra.Command{
	Use:    "daemon",
	Hidden: true,
	RunE:   runDaemonCmd,
}

var (
	configPath string
	background bool
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (TOML)")
	runCmd.Flags().BoolVarP(&background, "background", "b", false, "Detach and run in the background")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if background {
		if pid, ok := infra.NewInstanceLock().RunningPID(); ok {
			return fmt.Errorf("resguard is already running (pid %d)", pid)
		}
		pid, err := daemon.SpawnBackground(configPath)
		if err != nil {
			return fmt.Errorf("failed to spawn background daemon: %w", err)
		}
		fmt.Printf("resguard started in the background (pid %d)\n", pid)
		fmt.Printf("Enforcing %s every %s\n", cfg.Target, cfg.PollInterval)
		return nil
	}

	fmt.Printf("resguard enforcing %s (poll %s, hotkey %s)\n",
		cfg.Target, cfg.PollInterval, cfg.Hotkey)
	return daemon.Run(cfg, daemon.Options{Background: false})
}

func runDaemonCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return daemon.Run(cfg, daemon.Options{Background: true})
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := daemon.NewLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gateway, err := infra.NewGateway(logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	current, err := gateway.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current display mode: %w", err)
	}

	if current.Equal(cfg.Target) {
		fmt.Printf("Display mode already %s, nothing to do\n", current)
		return nil
	}

	fmt.Printf("Current mode %s, applying %s\n", current, cfg.Target)
	if err := gateway.Apply(ctx, cfg.Target); err != nil {
		return fmt.Errorf("failed to apply display mode: %w", err)
	}
	fmt.Printf("Display mode set to %s\n", cfg.Target)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	lock := infra.NewInstanceLock()
	fmt.Println("=== resguard status ===")
	if pid, ok := lock.RunningPID(); ok {
		fmt.Printf("Status: RUNNING (pid %d)\n", pid)
	} else {
		fmt.Println("Status: NOT RUNNING")
	}
	fmt.Printf("Target mode:   %s\n", cfg.Target)
	fmt.Printf("Poll interval: %s\n", cfg.PollInterval)
	fmt.Printf("Debounce:      %d consecutive readings\n", cfg.DebounceCount)
	fmt.Printf("Max failures:  %d\n", cfg.MaxFailures)
	fmt.Printf("Hotkey:        %s\n", cfg.Hotkey)
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("resguard %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
