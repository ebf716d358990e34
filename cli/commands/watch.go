package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/cli/internal/watch"
	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/engine"
)

func newWatchCommand(a *app) *cobra.Command {
	var keyColumn, valueColumn string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch TABLE",
		Short: "Re-print a table's pairs whenever its SQLite file changes",
		Args:  cobra.ExactArgs(1),
	}
	where := whereFlag(cmd)
	cmd.Flags().StringVarP(&keyColumn, "key", "k", "", "key column (required)")
	cmd.Flags().StringVarP(&valueColumn, "value", "v", "", "value column (default: whole row)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before refreshing")
	_ = cmd.MarkFlagRequired("key")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts, err := where()
		if err != nil {
			return err
		}
		file, err := sqliteFile(a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		eng, err := a.engine()
		if err != nil {
			return err
		}
		defer eng.Close()

		kv, err := dol.NewKvReader(ctx, eng, args[0], keyColumn, valueColumn, opts...)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		refresh := func() error {
			pairs, err := collectPairs(kv, cmd, 0)
			if err != nil {
				return err
			}
			ui.PrintSection(w, fmt.Sprintf("%s: %d rows at %s", args[0], len(pairs), time.Now().Format(time.TimeOnly)))
			rows := make([]dol.Row, len(pairs))
			for i, p := range pairs {
				rows[i] = dol.Row{p.Key, p.Value}
			}
			return printRows(w, []string{keyColumn, "value"}, rows)
		}

		watcher, err := watch.NewWatcher(file, refresh)
		if err != nil {
			return err
		}
		watcher.Debounce = debounce
		watcher.Errors = cmd.ErrOrStderr()
		defer watcher.Stop()

		if err := watcher.Start(); err != nil {
			return err
		}
		ui.PrintInfo(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)", file)

		<-ctx.Done()
		return nil
	}
	return cmd
}

// sqliteFile returns the database file behind a SQLite URL.
func sqliteFile(url string) (string, error) {
	if url == "" {
		return "", errNoURL
	}
	dialect, dsn, err := engine.ParseURL(url)
	if err != nil {
		return "", err
	}
	if dialect != engine.SQLite {
		return "", fmt.Errorf("watch needs a SQLite database, got %s", dialect)
	}

	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || strings.Contains(path, ":memory:") {
		return "", fmt.Errorf("cannot watch an in-memory database")
	}
	return path, nil
}
