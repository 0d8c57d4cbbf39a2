package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jcorbin/rpn/internal/logio"
	"github.com/jcorbin/rpn/internal/panicerr"
)

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)
	log.ErrorIf(newCommand(&log).Execute())
	os.Exit(log.ExitCode())
}

type command struct {
	log *logio.Logger

	configFile  string
	trace       bool
	evals       []string
	timeout     time.Duration
	interactive bool
}

func newCommand(log *logio.Logger) *cobra.Command {
	c := &command{log: log}
	cmd := &cobra.Command{
		Use:   "rpn [files...]",
		Short: "An RPN stack language interpreter",
		Long: `rpn evaluates programs written in a Forth flavored stack language.

Any -e source and files are evaluated in order; the interactive read loop
runs afterwards when none are given, or when --interactive is set.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&c.configFile, "config", "", "read settings from a TOML or YAML file")
	flags.BoolVar(&c.trace, "trace", false, "enable trace logging")
	flags.StringArrayVarP(&c.evals, "eval", "e", nil, "evaluate source text before any files")
	flags.DurationVar(&c.timeout, "timeout", 0, "specify a time limit")
	flags.BoolVarP(&c.interactive, "interactive", "i", false, "read from the terminal after evaluating files")
	return cmd
}

func (c *command) run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg Config
	if c.configFile != "" {
		var err error
		if cfg, err = LoadConfig(c.configFile); err != nil {
			return err
		}
	}

	opts := []InterpOption{
		WithOutput(os.Stdout),
		WithErrorReporter(func(err error) { c.log.Errorf("%v", err) }),
	}
	opts = append(opts, cfg.Options()...)
	if c.trace || cfg.Trace {
		opts = append(opts, WithLogf(c.log.Leveledf("TRACE")))
	}
	for i, text := range c.evals {
		opts = append(opts, WithInput(NamedString(fmt.Sprintf("-e#%d", i+1), text)))
	}
	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		opts = append(opts, WithInput(f))
	}

	interactive := c.interactive || len(args) == 0 && len(c.evals) == 0
	tty := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive && !tty {
		opts = append(opts, WithInput(os.Stdin))
	}

	in := New(opts...)
	defer in.Close()

	if c.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			in.Interrupt()
		}
	}()

	if err := c.runInterp(ctx, in); err != nil || !interactive || !tty || in.Exited() {
		return err
	}
	return c.repl(ctx, in, cfg)
}

// runInterp runs in until its input is exhausted, logging the stack of any
// internal panic when tracing.
func (c *command) runInterp(ctx context.Context, in *Interp) error {
	err := in.Run(ctx)
	if c.trace && (panicerr.IsPanic(err) || panicerr.IsExit(err)) {
		c.log.Errorf("%v\n%s", err, panicerr.Stack(err))
		return nil
	}
	return err
}

// repl runs the interactive read loop with line editing and history.
func (c *command) repl(ctx context.Context, in *Interp, cfg Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            in.Prompt(false),
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	InterpOptions(
		WithLineReader(func(continued bool) (string, error) {
			rl.SetPrompt(in.Prompt(continued))
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) && !continued {
				return "", nil
			}
			return line, err
		}),
		WithErrorReporter(nil),
		WithOutput(rl.Stdout()),
	).apply(in)
	return c.runInterp(ctx, in)
}
