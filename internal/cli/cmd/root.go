// Package cmd provides Cobra CLI commands for castellan.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/castellan/castellan/internal/app"
	"github.com/castellan/castellan/internal/infrastructure/config"
)

// BuildInfo carries version metadata set at link time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

var buildInfo = BuildInfo{
	Version:   "dev",
	Commit:    "unknown",
	BuildDate: "unknown",
	GoVersion: runtime.Version(),
}

// SetBuildInfo passes version metadata from main.
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
}

var rootCmd = &cobra.Command{
	Use:   "castellan",
	Short: "A keyboard-first secret manager for the terminal",
	Long: `Castellan - a keyboard-first secret manager.

Secrets are sealed with XChaCha20-Poly1305 under a passphrase-derived key
and stored in a local SQLite vault. The interface is fully keyboard-driven:
navigation-mode keys move between secrets and fields, editing mode captures
text until you save or cancel.

Run without a subcommand to open the vault.`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runVault()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("castellan %s\n", buildInfo.Version)
		fmt.Printf("commit: %s\n", buildInfo.Commit)
		fmt.Printf("built: %s\n", buildInfo.BuildDate)
		fmt.Printf("go: %s\n", buildInfo.GoVersion)
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the config and vault locations",
	RunE: func(_ *cobra.Command, _ []string) error {
		xdgDirs, err := config.GetXDGDirs()
		if err != nil {
			return err
		}
		dbPath, err := config.GetDatabaseFile()
		if err != nil {
			return err
		}
		fmt.Printf("config: %s\n", xdgDirs.ConfigHome)
		fmt.Printf("data:   %s\n", xdgDirs.DataHome)
		fmt.Printf("vault:  %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pathsCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runVault() error {
	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close vault: %v\n", closeErr)
		}
	}()

	setupSignalHandler(a)
	return a.Run()
}

func setupSignalHandler(a *app.App) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		signal.Stop(sigCh)
		a.Quit()
	}()
}
