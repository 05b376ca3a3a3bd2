// Command cadastro is an interactive client register: it stores client
// contact records in a local SQLite file and exports them to a PDF report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/cadastro-clientes/internal/config"
	"github.com/tbourn/cadastro-clientes/internal/observability"
	"github.com/tbourn/cadastro-clientes/internal/report"
	"github.com/tbourn/cadastro-clientes/internal/repo"
	"github.com/tbourn/cadastro-clientes/internal/services"
	"github.com/tbourn/cadastro-clientes/internal/shell"
	"github.com/tbourn/cadastro-clientes/internal/sysutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cadastro:", err)
		os.Exit(1)
	}
}

// newRootCommand builds the cadastro command. It takes no flags; settings
// come from the environment (see internal/config).
func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cadastro",
		Short:         "Cadastro de Clientes",
		Long:          "Cadastro interativo de clientes com armazenamento SQLite e relatório PDF.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), in, out, errOut)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

// run wires the application and drives the shell until the user quits.
func run(ctx context.Context, in io.Reader, out, errOut io.Writer) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	lg := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, errOut)
	ctx = lg.WithContext(ctx)

	metrics := observability.NewMetrics()
	defer func() {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			lg.Error().Err(werr).Str("path", cfg.MetricsTextfile).Msg("write metrics textfile")
		}
	}()

	store, err := services.OpenClientStore(ctx, cfg.DBPath,
		services.WithMetrics(metrics),
		services.WithGormLogger(repo.NewGormLogger(lg)),
	)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	defer func() {
		if serr := store.Shutdown(); serr != nil && err == nil {
			err = serr
		}
	}()

	gen := &report.Generator{
		Path:    cfg.Report.Path,
		Title:   cfg.Report.Title,
		Options: report.Options{LinesPerPage: cfg.Report.LinesPerPage},
		Metrics: metrics,
	}

	log.Info().Str("db", cfg.DBPath).Str("report", cfg.Report.Path).Msg("cadastro started")
	sh := shell.New(store, gen, shell.Options{
		In:         in,
		Out:        out,
		ReportPath: cfg.Report.Path,
	})
	if err := sh.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("cadastro stopped")
	return nil
}
