package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/majormatch-backend/internal/app"
)

const shutdownTimeout = 20 * time.Second

var rootCmd = &cobra.Command{
	Use:           "majormatch",
	Short:         "RIASEC assessment and major recommendation API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Migrate(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Schema up to date.")
		return nil
	},
}

var seedCasesCmd = &cobra.Command{
	Use:   "seed-cases",
	Short: "Create the case index and load the bundled case corpus",
	RunE: func(cmd *cobra.Command, _ []string) error {
		n, err := app.SeedCases(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("Seeded %d cases.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCasesCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	a.Start()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	var runErr error
	select {
	case <-ctx.Done():
		a.Log.Info("Shutting down...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
