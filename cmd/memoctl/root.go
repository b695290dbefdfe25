package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"memoboard/internal/memos/bootstrap"
	"memoboard/internal/memos/domain/entities"
)

// Коды завершения по видам ошибок.
const (
	ExitFailure       = 1
	ExitValidation    = 2
	ExitNotFound      = 3
	ExitPersistence   = 4
	ExitSummarization = 5
)

// ErrClearNotConfirmed - clear без --yes.
var ErrClearNotConfirmed = errors.New("refusing to clear all memos without --yes")

// opener собирает сервисы для одной команды.
type opener func(ctx context.Context) (*bootstrap.Services, error)

// cli хранит состояние одного запуска.
type cli struct {
	open     opener
	services *bootstrap.Services
}

// run выполняет одну команду и освобождает хранилище, даже если команда завершилась ошибкой.
func run(ctx context.Context, open opener, args []string, stdout, stderr io.Writer) (err error) {
	c := &cli{open: open}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if c.services == nil {
			return
		}
		if closeErr := c.services.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return root.ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "memoctl",
		Short:         "Inspect and manage the memo store",
		Long:          "memoctl works with the same store as the memos service: PostgreSQL when MEMOS_REMOTE_DATABASE_URL is set, the local store otherwise.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.listCmd(),
		c.statsCmd(),
		c.showCmd(),
		c.summarizeCmd(),
		c.searchCmd(),
		c.categoryCmd(),
		c.clearCmd(),
	)
	return root
}

// load лениво собирает сервисы, чтобы --help не трогал хранилище.
func (c *cli) load(ctx context.Context) (*bootstrap.Services, error) {
	if c.services != nil {
		return c.services, nil
	}
	services, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	c.services = services
	return services, nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation), errors.Is(err, ErrClearNotConfirmed):
		return ExitValidation
	case errors.Is(err, entities.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, entities.ErrPersistence):
		return ExitPersistence
	case entities.IsSummarizationError(err):
		return ExitSummarization
	default:
		return ExitFailure
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
