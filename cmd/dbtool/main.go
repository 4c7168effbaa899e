// dbtool exports and imports whitelisted tables as CSV. It is an operator
// utility for backups and for moving data between environments; it talks to
// Postgres directly and never goes through the bot.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	pg "telegram-vip-subscription/internal/infra/db/postgres"
)

var dsn string

// tables lists what dbtool may touch. Anything else is refused so a typo
// cannot dump or overwrite an unrelated table.
var tables = map[string]struct{}{
	"users":          {},
	"sub_durations":  {},
	"subscriptions":  {},
	"unique_codes":   {},
	"redeemed_codes": {},
	"sub_grants":     {},
	"sub_revokes":    {},
	"trial_timers":   {},
}

func main() {
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "CSV export/import for the subscription database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres DSN, defaults to DATABASE_URL")
	root.AddCommand(newTablesCmd(), newExportCmd(), newImportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if dsn == "" {
		_ = godotenv.Load()
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, fmt.Errorf("no DSN: set --dsn or DATABASE_URL")
	}
	return pg.Connect(ctx, dsn)
}

func checkTable(name string) error {
	if _, ok := tables[name]; !ok {
		return fmt.Errorf("table %q is not exportable, see 'dbtool tables'", name)
	}
	return nil
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables dbtool can export and import",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(tables))
			for name := range tables {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Export a table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := checkTable(table); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			w := os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := exportTable(ctx, pool, table, w)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "exported %d rows from %s\n", n, table)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, '-' for stdout")
	return cmd
}

func exportTable(ctx context.Context, pool *pgxpool.Pool, table string, w *os.File) (int, error) {
	rows, err := pool.Query(ctx, "SELECT * FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		header = append(header, string(fd.Name))
	}
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	count := 0
	record := make([]string, len(header))
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return count, err
		}
		for i, v := range values {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}
	cw.Flush()
	return count, cw.Error()
}

// formatValue renders a column value so Postgres can parse it back on import.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func newImportCmd() *cobra.Command {
	var in string
	var truncate bool
	cmd := &cobra.Command{
		Use:   "import <table>",
		Short: "Import a CSV file into a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(args[0])
			if err := checkTable(table); err != nil {
				return err
			}
			if in == "" {
				return fmt.Errorf("--in is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := importTable(ctx, pool, table, f, truncate)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "imported %d rows into %s\n", n, table)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input CSV file")
	cmd.Flags().BoolVar(&truncate, "truncate", false, "truncate the table first")
	return cmd
}

func importTable(ctx context.Context, pool *pgxpool.Pool, table string, f *os.File, truncate bool) (int, error) {
	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	placeholders := make([]string, len(header))
	for i := range header {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(header, ", "), strings.Join(placeholders, ", "),
	)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if truncate {
		if _, err := tx.Exec(ctx, "TRUNCATE "+table+" CASCADE"); err != nil {
			return 0, fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	count := 0
	for {
		record, err := cr.Read()
		if err != nil {
			break
		}
		args := make([]interface{}, len(record))
		for i, v := range record {
			if v == "" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err := tx.Exec(ctx, insert, args...); err != nil {
			return count, fmt.Errorf("insert row %d: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return count, err
	}
	return count, nil
}
