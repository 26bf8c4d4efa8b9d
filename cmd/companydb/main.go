// Command companydb validates table/schema descriptions, generates DDL, and
// optionally applies it to a company database.
//
// Usage:
//
//	companydb validate -f table.json
//	companydb ddl -f table.json [--drop] [--cascade]
//	companydb schema-ddl -f schema.json [--drop] [--cascade]
//	companydb apply -f table.json --db-url postgresql://...
//	companydb bootstrap --db-url postgresql://...
//	companydb imports --db-url postgresql://... [--database d] [--limit n]
//	companydb scan FILE [--encoding windows-1250] [--header] [--config config.yaml]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"companydb/internal/config"
	"companydb/internal/importlog"
	"companydb/internal/provision"
	"companydb/internal/spec"
	"companydb/internal/storage/postgres"
	"companydb/internal/storage/sqlite"
)

var (
	specFile   string
	dbURL      string
	sqlitePath string
	configPath string
	drop       bool
	cascade    bool
	database   string
	limit      int
	encoding   string
	hasHeader  bool
)

var rootCmd = &cobra.Command{
	Use:           "companydb",
	Short:         "Validate table descriptions and generate Postgres DDL",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a table description and list every problem",
	RunE:  runValidate,
}

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the CREATE (or DROP) statements for a table description",
	RunE:  runDDL,
}

var schemaDDLCmd = &cobra.Command{
	Use:   "schema-ddl",
	Short: "Print the CREATE (or DROP) statements for a schema description",
	RunE:  runSchemaDDL,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Validate, compile, and execute the statements in one transaction",
	RunE:  runApply,
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the import_history table in a fresh company database",
	RunE:  runBootstrap,
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List import history, newest first",
	RunE:  runImports,
}

var scanCmd = &cobra.Command{
	Use:   "scan FILE",
	Short: "Report size, checksum, and row count of an import file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	for _, c := range []*cobra.Command{validateCmd, ddlCmd, schemaDDLCmd, applyCmd} {
		c.Flags().StringVarP(&specFile, "file", "f", "", "description JSON file (- for stdin)")
		_ = c.MarkFlagRequired("file")
	}
	for _, c := range []*cobra.Command{ddlCmd, schemaDDLCmd} {
		c.Flags().BoolVar(&drop, "drop", false, "generate DROP instead of CREATE")
		c.Flags().BoolVar(&cascade, "cascade", false, "drop dependent objects too (with --drop)")
	}
	for _, c := range []*cobra.Command{applyCmd, bootstrapCmd, importsCmd} {
		c.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	}
	_ = applyCmd.MarkFlagRequired("db-url")
	_ = bootstrapCmd.MarkFlagRequired("db-url")

	importsCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite history file (instead of --db-url)")
	importsCmd.Flags().StringVar(&database, "database", "", "filter by company database name")
	importsCmd.Flags().IntVar(&limit, "limit", 0, "maximum records (default 50)")

	scanCmd.Flags().StringVar(&encoding, "encoding", "", "source encoding (utf-8 or windows-1250)")
	scanCmd.Flags().BoolVar(&hasHeader, "header", false, "exclude the first line from the row count")
	scanCmd.Flags().StringVar(&configPath, "config", "", "YAML config file supplying scan defaults")

	rootCmd.AddCommand(validateCmd, ddlCmd, schemaDDLCmd, applyCmd, bootstrapCmd, importsCmd, scanCmd)
}

// readSpec loads the description file, with "-" meaning stdin.
func readSpec(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	return b, nil
}

// printVerdict writes problems to stderr and returns a nonzero-exit error
// when the description is invalid.
func printVerdict(valid bool, errs []string) error {
	if valid {
		fmt.Println("valid")
		return nil
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	return fmt.Errorf("%d problem(s) found", len(errs))
}

func runValidate(cmd *cobra.Command, args []string) error {
	b, err := readSpec(specFile)
	if err != nil {
		return err
	}
	t, err := spec.DecodeTable(b)
	if err != nil {
		return err
	}
	res, err := provision.CreateTable(cmd.Context(), nil, t)
	if err != nil {
		return err
	}
	return printVerdict(res.Verdict.Valid, res.Verdict.Errors)
}

func runDDL(cmd *cobra.Command, args []string) error {
	b, err := readSpec(specFile)
	if err != nil {
		return err
	}
	t, err := spec.DecodeTable(b)
	if err != nil {
		return err
	}

	var res provision.Result
	if drop {
		res, err = provision.DropTable(cmd.Context(), nil, t.Name, t.SchemaName(), cascade)
	} else {
		res, err = provision.CreateTable(cmd.Context(), nil, t)
	}
	if err != nil {
		return err
	}
	if !res.Verdict.Valid {
		return printVerdict(false, res.Verdict.Errors)
	}
	for _, s := range res.Statements {
		fmt.Println(s)
	}
	return nil
}

func runSchemaDDL(cmd *cobra.Command, args []string) error {
	b, err := readSpec(specFile)
	if err != nil {
		return err
	}
	sc, err := spec.DecodeSchema(b)
	if err != nil {
		return err
	}

	var res provision.Result
	if drop {
		res, err = provision.DropSchema(cmd.Context(), nil, sc.Name, cascade)
	} else {
		res, err = provision.CreateSchema(cmd.Context(), nil, sc)
	}
	if err != nil {
		return err
	}
	if !res.Verdict.Valid {
		return printVerdict(false, res.Verdict.Errors)
	}
	for _, s := range res.Statements {
		fmt.Println(s)
	}
	return nil
}

// connect opens a caller-owned pool; the returned closer must run before the
// process exits.
func connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return pool, nil
}

func runApply(cmd *cobra.Command, args []string) error {
	b, err := readSpec(specFile)
	if err != nil {
		return err
	}
	t, err := spec.DecodeTable(b)
	if err != nil {
		return err
	}

	pool, err := connect(cmd.Context(), dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	res, err := provision.CreateTable(cmd.Context(), postgres.NewExecutor(pool), t)
	if err != nil {
		return err
	}
	if !res.Verdict.Valid {
		return printVerdict(false, res.Verdict.Errors)
	}
	for _, s := range res.Statements {
		fmt.Println(s)
	}
	fmt.Printf("applied %d statement(s)\n", len(res.Statements))
	return nil
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	pool, err := connect(cmd.Context(), dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := importlog.Bootstrap(cmd.Context(), postgres.NewExecutor(pool)); err != nil {
		return err
	}
	fmt.Println("import_history created")
	return nil
}

func runImports(cmd *cobra.Command, args []string) error {
	var (
		store importlog.Store
		ctx   = cmd.Context()
	)
	switch {
	case sqlitePath != "":
		s, closeStore, err := sqlite.Open(ctx, sqlitePath)
		if err != nil {
			return err
		}
		defer closeStore()
		store = s
	case dbURL != "":
		pool, err := connect(ctx, dbURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = postgres.NewHistoryStore(pool)
	default:
		return fmt.Errorf("one of --db-url or --sqlite is required")
	}

	recs, err := store.List(ctx, database, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATABASE\tTABLE\tFILE\tROWS\tSTATUS\tFINISHED")
	for _, r := range recs {
		finished := ""
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Database, r.TableName, r.FileName, r.Rows, r.Status, finished)
	}
	return w.Flush()
}

// scanOptions layers the config file's import defaults under the flags that
// were actually set on the command line.
func scanOptions(imp config.ImportConfig, encodingSet, headerSet bool) importlog.ScanOptions {
	opts := importlog.ScanOptions{Encoding: encoding, HasHeader: hasHeader}
	if !encodingSet {
		opts.Encoding = imp.Encoding
	}
	if !headerSet {
		opts.HasHeader = imp.HasHeader
	}
	return opts
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := importlog.ScanOptions{Encoding: encoding, HasHeader: hasHeader}
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		opts = scanOptions(cfg.Imports,
			cmd.Flags().Changed("encoding"), cmd.Flags().Changed("header"))
	}

	sum, err := importlog.ScanFile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
