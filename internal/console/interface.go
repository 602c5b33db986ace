package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/usecase"
	"browserflow/pkg/logg"
)

var errExit = errors.New("exit")

type Interface struct {
	config  *config.Config
	logger  *zap.Logger
	usecase *usecase.Service
	in      io.Reader
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	return newInterface(params, os.Stdin, os.Stdout)
}

func newInterface(params Params, in io.Reader, out io.Writer) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Interface{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase: params.Usecase,
		in:      in,
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start reads commands until exit, end of input or Stop.
func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	scanner := bufio.NewScanner(i.in)

	for {
		if i.ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}
}

// Stop cancels any command in flight. It is safe to call more than once.
func (i *Interface) Stop() error {
	i.once.Do(func() {
		i.logger.Info("Stopping console interface...")
		i.cancel()
	})

	return nil
}

func (i *Interface) handleCommand(input string) error {
	fields := strings.Fields(input)

	switch fields[0] {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "compile":
		return i.compile(fields[1:])
	case "candidates":
		return i.candidates(fields[1:])
	case "baseline":
		return i.baseline(fields[1:])
	default:
		return fmt.Errorf("unknown command %q, type help", fields[0])
	}
}

func (i *Interface) compile(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: compile <lockfile> [review]")
	}

	review := ""
	if len(args) == 2 {
		review = args[1]
	}

	test, written, err := i.usecase.Compile.Compile(i.ctx, args[0], review)
	if err != nil {
		return err
	}

	fmt.Fprintf(i.out, "Compiled %s (%d bytes) -> %s\n", test.SpecName, len(test.Content), written)

	return nil
}

func (i *Interface) candidates(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: candidates <url|html file> <query...>")
	}

	views, err := i.usecase.Candidates.Candidates(i.ctx, strings.Join(args[1:], " "), args[0])
	if err != nil {
		return err
	}

	if len(views) == 0 {
		fmt.Fprintln(i.out, "No matching element.")

		return nil
	}

	for n, v := range views {
		fmt.Fprintf(i.out, "%d. [%s %.2f] %s\n   %s\n", n+1, v.Strategy, v.Confidence, v.Description, v.Code)
	}

	return nil
}

func (i *Interface) baseline(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: baseline <url> <name>")
	}

	path, err := i.usecase.Baselines.Capture(i.ctx, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(i.out, "Baseline saved to %s\n", path)

	return nil
}

func (i *Interface) printBanner() {
	fmt.Fprintln(i.out, "browserflow: compile reviewed explorations into Playwright tests")
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  compile <lockfile> [review]        - Compile a lockfile (JSON or YAML) into a test file
  candidates <url|html file> <query> - Rank locator candidates for an element
  baseline <url> <name>              - Capture a baseline screenshot
  help, h                            - Show this help message
  exit, quit, q                      - Exit the application
`
	fmt.Fprintln(i.out, help)
}
