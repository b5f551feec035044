package officequery

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	defaultDBType = "sqlite"
	defaultDBURL  = "data.sqlite"
)

type Config struct {
	DBType  string
	DBURL   string
	Query   string
	Output  string
	Limit   int
	Timeout time.Duration
	EnvFile string

	ShowSQL bool
	Verbose bool
}

func Run() error {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	return runQuery(ctx, cfg, os.Stdout)
}

// runQuery opens the database, runs the selected preset and writes the result
// to out. Nothing is written to out unless the query succeeds.
func runQuery(ctx context.Context, cfg Config, out io.Writer) error {
	p, err := lookupPreset(cfg.Query)
	if err != nil {
		return err
	}

	limit := effectiveLimit(p, cfg.Limit)
	sqlQuery := p.query(limit)

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Opening %s database %s\n", cfg.DBType, cfg.DBURL)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := checkSchema(ctx, db, cfg.DBType, employeesTable, p.Requires); err != nil {
		return err
	}

	if cfg.ShowSQL || cfg.Verbose {
		fmt.Fprintf(os.Stderr, "SQL:\n%s\n", sqlQuery)
	}

	start := time.Now()
	columns, rows, err := executeQuery(ctx, db, sqlQuery, limit)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Fetched %d row(s) in %s\n", len(rows), time.Since(start).Round(time.Millisecond))
	}

	rendered, err := renderOutput(cfg.Output, columns, rows)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

// effectiveLimit lets a requested limit tighten a preset's row cap but never
// loosen it. Presets without a cap take the request as is.
func effectiveLimit(p preset, requested int) int {
	if requested <= 0 {
		return p.Limit
	}
	if p.Limit > 0 {
		return min(requested, p.Limit)
	}
	return requested
}

func parseConfig(args []string) (Config, error) {
	cfg := Config{
		DBType:  defaultDBType,
		DBURL:   defaultDBURL,
		Query:   defaultPreset,
		Output:  "table",
		Timeout: 30 * time.Second,
	}

	if envFile, ok := scanStringFlag(args, "env-file"); ok {
		cfg.EnvFile = envFile
	}

	settings, err := loadSettings(cfg.EnvFile)
	if err != nil {
		return cfg, err
	}
	applySettingsDefaults(&cfg, settings)

	fs := flag.NewFlagSet("officequery", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.DBType, "db-type", cfg.DBType, "Database type: sqlite, postgres, mysql")
	fs.StringVar(&cfg.DBURL, "db-url", cfg.DBURL, "Database connection URL or sqlite file path")
	fs.StringVar(&cfg.Query, "query", cfg.Query, "Query to run: "+strings.Join(presetNames(), ", "))
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Output format: table or json")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "Max rows to return; cannot exceed the query's own cap (0 uses the cap)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Timeout for the whole run (e.g. 45s, 2m)")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Optional dotenv file providing "+envDBType+" and "+envDBURL)
	fs.BoolVar(&cfg.ShowSQL, "show-sql", cfg.ShowSQL, "Print the SQL to stderr")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print extra logs")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "officequery: list employees with their office location\n\n")
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  officequery [options]\n\n")
		fmt.Fprintf(out, "Queries:\n")
		for _, p := range presets {
			fmt.Fprintf(out, "  %-12s %s\n", p.Name, p.Summary)
		}
		fmt.Fprintf(out, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	normalizedDBType, err := normalizeDBTypeInput(cfg.DBType)
	if err != nil {
		return cfg, err
	}
	cfg.DBType = normalizedDBType

	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	if cfg.DBURL == "" {
		return cfg, errors.New("--db-url is required")
	}

	if _, err := lookupPreset(cfg.Query); err != nil {
		return cfg, err
	}
	cfg.Query = strings.ToLower(strings.TrimSpace(cfg.Query))

	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	if cfg.Output != "table" && cfg.Output != "json" {
		return cfg, fmt.Errorf("unsupported --output %q (expected table|json)", cfg.Output)
	}

	if cfg.Limit < 0 {
		return cfg, errors.New("--limit must be >= 0")
	}
	if cfg.Timeout <= 0 {
		return cfg, errors.New("--timeout must be > 0")
	}

	return cfg, nil
}

// scanStringFlag finds a flag value before the flag set is built, accepting
// both -name and --name spellings.
func scanStringFlag(args []string, name string) (string, bool) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		for _, dash := range []string{"--", "-"} {
			flagName := dash + name
			if strings.HasPrefix(a, flagName+"=") {
				return strings.TrimSpace(strings.TrimPrefix(a, flagName+"=")), true
			}
			if a == flagName {
				if i+1 >= len(args) {
					return "", true
				}
				return strings.TrimSpace(args[i+1]), true
			}
		}
	}
	return "", false
}
