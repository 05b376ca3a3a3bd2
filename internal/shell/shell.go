// Package shell implements the interactive surface of the tool: a form to
// register clients, a table listing them, row deletion by id, and the
// report actions. Each input line is dispatched through a cobra command
// tree; every action reads from and writes to the record store, never
// holding records across actions.
//
// Store and report errors end the current action only. They are shown to
// the user as a blocking notification line and the shell keeps running.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tbourn/cadastro-clientes/internal/domain"
	"github.com/tbourn/cadastro-clientes/internal/report"
	"github.com/tbourn/cadastro-clientes/internal/sysutil"
)

// RecordStore is the part of the record store the shell drives.
type RecordStore interface {
	Create(ctx context.Context, in domain.ClientInput) (uint, error)
	List(ctx context.Context) ([]domain.Client, error)
	Delete(ctx context.Context, id uint) error
}

// ReportSink renders a listing into the report document.
type ReportSink interface {
	Generate(ctx context.Context, clients []domain.Client) (report.Summary, error)
}

// Options configures a Shell.
type Options struct {
	In         io.Reader
	Out        io.Writer
	ReportPath string
	// OpenReport launches the viewer; defaults to report.Open.
	OpenReport func(path string) error
}

// Shell is the interactive form-and-table surface.
type Shell struct {
	store      RecordStore
	reports    ReportSink
	in         *bufio.Reader
	out        io.Writer
	reportPath string
	openReport func(string) error

	// draft holds the last form values that were not saved, so the user
	// can correct them instead of typing everything again.
	draft domain.ClientInput

	lines   chan lineResult
	readErr error
}

type lineResult struct {
	line string
	err  error
}

const prompt = "cadastro> "

// errQuit ends Run without error.
var errQuit = errors.New("quit")

// New builds a Shell bound to store and reports.
func New(store RecordStore, reports ReportSink, opts Options) *Shell {
	open := opts.OpenReport
	if open == nil {
		open = report.Open
	}
	return &Shell{
		store:      store,
		reports:    reports,
		in:         bufio.NewReader(opts.In),
		out:        opts.Out,
		reportPath: opts.ReportPath,
		openReport: open,
	}
}

// Run reads commands until "quit", end of input, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Cadastro de Clientes. Digite \"help\" para ver os comandos.")
	for {
		fmt.Fprint(s.out, prompt)
		line, err := s.readLine(ctx)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch err := s.Exec(ctx, args); {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF), ctx.Err() != nil:
			return nil
		case err != nil:
			s.fail(err)
		}
	}
}

// Exec runs one command line. Errors from the store or the report sink are
// reported to the user and not returned; the returned error is for unknown
// commands, bad arguments and end of input.
func (s *Shell) Exec(ctx context.Context, args []string) error {
	lg := sysutil.LoggerFrom(ctx).With().
		Str("action_id", uuid.NewString()).
		Str("command", args[0]).
		Logger()
	ctx = lg.WithContext(ctx)

	root := s.newRoot()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errQuit) && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		lg.Debug().Err(err).Msg("command rejected")
	}
	return err
}

// newRoot builds a fresh command tree so no flag or context state leaks
// from one line to the next.
func (s *Shell) newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "cadastro",
		Short:         "Cadastro de Clientes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(
		&cobra.Command{
			Use:     "add",
			Aliases: []string{"adicionar"},
			Short:   "Adicionar cliente (formulário)",
			Args:    cobra.NoArgs,
			RunE:    func(cmd *cobra.Command, _ []string) error { return s.add(cmd.Context()) },
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"listar"},
			Short:   "Listar clientes",
			Args:    cobra.NoArgs,
			RunE:    func(cmd *cobra.Command, _ []string) error { return s.list(cmd.Context()) },
		},
		&cobra.Command{
			Use:     "delete <id>",
			Aliases: []string{"excluir"},
			Short:   "Excluir o cliente com o ID informado",
			Args:    cobra.ExactArgs(1),
			RunE:    func(cmd *cobra.Command, args []string) error { return s.delete(cmd.Context(), args[0]) },
		},
		&cobra.Command{
			Use:     "report",
			Aliases: []string{"relatorio"},
			Short:   "Gerar relatório PDF",
			Args:    cobra.NoArgs,
			RunE:    func(cmd *cobra.Command, _ []string) error { return s.generateReport(cmd.Context()) },
		},
		&cobra.Command{
			Use:     "open",
			Aliases: []string{"abrir"},
			Short:   "Abrir relatório PDF",
			Args:    cobra.NoArgs,
			RunE:    func(cmd *cobra.Command, _ []string) error { return s.open(cmd.Context()) },
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"sair", "exit"},
			Short:   "Sair",
			Args:    cobra.NoArgs,
			RunE:    func(*cobra.Command, []string) error { return errQuit },
		},
	)
	root.SetHelpCommand(&cobra.Command{
		Use:     "help",
		Aliases: []string{"ajuda"},
		Short:   "Mostrar os comandos",
		Run: func(cmd *cobra.Command, _ []string) {
			tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
			for _, c := range root.Commands() {
				if c.Hidden {
					continue
				}
				fmt.Fprintf(tw, "  %s\t%s\t(%s)\n", c.Use, c.Short, strings.Join(c.Aliases, ", "))
			}
			_ = tw.Flush()
		},
	})
	return root
}

// add runs the six-field form and creates the client.
func (s *Shell) add(ctx context.Context) error {
	lg := sysutil.LoggerFrom(ctx)

	in := s.draft
	for _, f := range domain.InputFields {
		label := fieldLabels[f]
		if prev := in.Value(f); prev != "" {
			fmt.Fprintf(s.out, "%s [%s]: ", label, prev)
		} else {
			fmt.Fprintf(s.out, "%s: ", label)
		}
		v, err := s.readLine(ctx)
		if err != nil {
			// Input closed mid-form: keep what was typed so far.
			s.draft = in
			return err
		}
		if v != "" {
			in.Set(f, v)
		}
	}

	id, err := s.store.Create(ctx, in)
	if err != nil {
		s.draft = in
		lg.Warn().Err(err).Msg("add client failed")
		s.fail(err)
		return nil
	}
	s.draft = domain.ClientInput{}
	s.success(fmt.Sprintf("Cliente adicionado com sucesso (ID %d).", id))
	return s.list(ctx)
}

// list renders the table of all clients.
func (s *Shell) list(ctx context.Context) error {
	clients, err := s.store.List(ctx)
	if err != nil {
		sysutil.LoggerFrom(ctx).Warn().Err(err).Msg("list clients failed")
		s.fail(err)
		return nil
	}
	if len(clients) == 0 {
		fmt.Fprintln(s.out, "Nenhum cliente cadastrado.")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNome\tEndereço\tTelefone\tCPF\tRG\tEmail")
	for _, c := range clients {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Address, c.Phone, c.CPF, c.RG, c.Email)
	}
	return tw.Flush()
}

// delete removes the client with the given id.
func (s *Shell) delete(ctx context.Context, arg string) error {
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || id == 0 {
		return fmt.Errorf("ID inválido: %q", arg)
	}
	if err := s.store.Delete(ctx, uint(id)); err != nil {
		sysutil.LoggerFrom(ctx).Warn().Err(err).Msg("delete client failed")
		s.fail(err)
		return nil
	}
	s.success("Cliente deletado com sucesso.")
	return nil
}

// generateReport hands the current listing, unchanged, to the report sink.
func (s *Shell) generateReport(ctx context.Context) error {
	lg := sysutil.LoggerFrom(ctx)
	clients, err := s.store.List(ctx)
	if err != nil {
		lg.Warn().Err(err).Msg("list clients for report failed")
		s.fail(err)
		return nil
	}
	sum, err := s.reports.Generate(ctx, clients)
	if err != nil {
		lg.Warn().Err(err).Msg("report generation failed")
		s.fail(err)
		return nil
	}
	s.success(fmt.Sprintf("Relatório PDF gerado com sucesso: %s (%d página(s)).", sum.Path, sum.Pages))
	return nil
}

// open launches the viewer for the last generated report.
func (s *Shell) open(ctx context.Context) error {
	if err := s.openReport(s.reportPath); err != nil {
		sysutil.LoggerFrom(ctx).Info().Err(err).Msg("open report failed")
		s.fail(err)
	}
	return nil
}

func (s *Shell) success(msg string) { fmt.Fprintf(s.out, "Sucesso: %s\n", msg) }

func (s *Shell) fail(err error) { fmt.Fprintf(s.out, "Erro: %s\n", Message(err)) }

// readLine returns the next input line without its line terminator. Lines
// are read on a separate goroutine so a blocked read on a terminal does not
// keep a cancelled ctx from ending the session. Once the input fails, every
// later call returns the same error.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	if s.readErr != nil {
		return "", s.readErr
	}
	if s.lines == nil {
		s.lines = make(chan lineResult)
		go s.scan()
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-s.lines:
		if r.err != nil {
			s.readErr = r.err
		}
		return r.line, r.err
	}
}

// scan feeds s.lines until the input fails. A last line without a newline
// is delivered before io.EOF.
func (s *Shell) scan() {
	for {
		line, err := s.in.ReadString('\n')
		if err != nil && line != "" && errors.Is(err, io.EOF) {
			s.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			s.lines <- lineResult{err: err}
			return
		}
		s.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
	}
}
