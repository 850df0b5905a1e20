package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dshills/modstudio/internal/app"
)

const replPrompt = "modstudio> "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate Lua lines from stdin",
	Long: `Read Lua statements line by line and evaluate them against a new
document. A transaction may span several lines. Besides Lua, the REPL
understands:

  .doc       print the document and history
  .quit      exit

While the REPL runs, the config file is watched for history bound changes
and metrics are served when enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		var wg sync.WaitGroup
		startBackground(ctx, &wg, a)
		defer wg.Wait()
		defer cancel()

		return repl(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// startBackground runs the config watcher and metrics server until ctx is
// done.
func startBackground(ctx context.Context, wg *sync.WaitGroup, a *app.Application) {
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := a.WatchConfig(ctx); err != nil {
			a.Logger().Warn("config watcher stopped", slog.Any("error", err))
		}
	}()
	go func() {
		defer wg.Done()
		if err := a.ServeMetrics(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger().Warn("metrics server stopped", slog.Any("error", err))
		}
	}()
}

func repl(ctx context.Context, a *app.Application, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, replPrompt)
	for sc.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
		case ".quit", ".exit":
			return nil
		case ".doc":
			if err := writeYAML(out, newReport(a)); err != nil {
				return err
			}
		default:
			if err := a.Runtime().DoString(ctx, line); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		fmt.Fprint(out, replPrompt)
	}
	return sc.Err()
}
