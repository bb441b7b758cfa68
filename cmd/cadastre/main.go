// Command cadastre rebuilds the shared town map from the parcels users keep
// in their home directories.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jmdejong/cadastrs/internal/config"
	"github.com/jmdejong/cadastrs/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(os.LookupEnv, productionLogger)
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		if a.log != nil {
			a.log.Fatal("cadastre failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "cadastre:", err)
		os.Exit(1)
	}
}

// app carries what the commands share once flags are parsed.
type app struct {
	lookup    config.LookupFunc
	newLogger func(verbose bool) (*zap.Logger, error)

	flags *config.Flags
	cfg   config.Config
	log   *zap.Logger
}

func newApp(lookup config.LookupFunc, newLogger func(bool) (*zap.Logger, error)) *app {
	return &app{lookup: lookup, newLogger: newLogger}
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cadastre",
		Short: "Rebuild the town map from users' parcels",
		Long: `cadastre collects parcel files from admin files, users' home directories
and public parcel directories, merges them into the stored town and writes
text and HTML renders.

Run without a subcommand to update the town.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.flags.Resolve(a.lookup)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log, err = a.newLogger(cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log.Debug("config resolved",
				zap.String("command", cmd.Name()),
				zap.String("store", cfg.Store.Driver),
				zap.String("homedirs", cfg.HomeDirs),
			)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: a.runUpdate,
	}
	a.flags = config.Bind(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Store an empty town",
			Args:  cobra.NoArgs,
			RunE:  a.runInit,
		},
		&cobra.Command{
			Use:   "update",
			Short: "Merge current parcels into the town and render it",
			Args:  cobra.NoArgs,
			RunE:  a.runUpdate,
		},
		&cobra.Command{
			Use:   "render",
			Short: "Render the stored town without changing it",
			Args:  cobra.NoArgs,
			RunE:  a.runRender,
		},
		&cobra.Command{
			Use:   "restore <archive>",
			Short: "Make an archived snapshot the current town",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runRestore,
		},
		a.historyCmd(),
	)
	return root
}

// withService opens the configured store, builds the town service and closes
// the store once fn returns.
func (a *app) withService(ctx context.Context, fn func(service.TownService) error) error {
	repo, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(a.townService(repo))
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	return a.withService(cmd.Context(), func(s service.TownService) error {
		meta, err := s.Init(cmd.Context())
		if err != nil {
			return err
		}
		return printf(cmd.OutOrStdout(), "initialised town %s\n", meta.ID)
	})
}

func (a *app) runRender(cmd *cobra.Command, _ []string) error {
	return a.withService(cmd.Context(), func(s service.TownService) error {
		return s.Render(cmd.Context())
	})
}

func (a *app) runRestore(cmd *cobra.Command, args []string) error {
	return a.withService(cmd.Context(), func(s service.TownService) error {
		meta, err := s.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printf(cmd.OutOrStdout(), "restored %s as %s (%d places)\n", args[0], meta.ID, meta.Places)
	})
}

func printf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
