// catmigrate walks a learner through moving a table out of the legacy
// metastore into a governed catalog: copy with casts, grant access, inspect
// grants, clean up. The lesson command runs the whole script; repl offers an
// interactive prompt against the same engine.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"catmigrate/classroom"
	"catmigrate/ctxlog"
	"catmigrate/database"
	"catmigrate/executor"
)

var (
	flagDataDir string
	flagUser    string
	flagCatalog string
	flagLesson  string
	flagKeep    bool
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "catmigrate",
		Short:         "Table migration walkthrough: legacy metastore to governed catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "./classroom_data", "engine data directory")
	root.PersistentFlags().StringVar(&flagUser, "user", defaultUser(), "acting user")
	root.PersistentFlags().StringVar(&flagCatalog, "catalog", "main", "governed catalog to migrate into")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	lessonCmd := &cobra.Command{
		Use:   "lesson",
		Short: "Run the migration walkthrough end to end",
		RunE:  runLesson,
	}
	lessonCmd.Flags().StringVar(&flagLesson, "lesson", "migrate", "lesson name, scopes the per-user database")
	lessonCmd.Flags().BoolVar(&flagKeep, "keep", false, "skip cleanup so results can be inspected")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive SQL prompt against the engine",
		RunE:  runRepl,
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop everything the walkthrough created for this user",
		RunE:  runReset,
	}
	resetCmd.Flags().StringVar(&flagLesson, "lesson", "migrate", "lesson name (cleanup matches the user prefix regardless)")

	root.AddCommand(lessonCmd, replCmd, resetCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "student"
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runLesson(cmd *cobra.Command, args []string) error {
	ctx := ctxlog.WithLogger(cmd.Context(), newLogger())

	engine, err := database.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	helper := classroom.New(engine, flagUser, flagCatalog, flagLesson)
	cfg, err := helper.Setup(ctx)
	if err != nil {
		return err
	}

	session := executor.NewSession(engine, flagUser)
	steps := []string{
		fmt.Sprintf("USE CATALOG %s", cfg.Catalog),
		fmt.Sprintf("USE %s", cfg.DBName),
		fmt.Sprintf("SELECT * FROM %s", cfg.SourceTable),
		fmt.Sprintf("CREATE TABLE movies AS SELECT * FROM %s", cfg.SourceTable),
		fmt.Sprintf("CREATE OR REPLACE TABLE movies AS SELECT "+
			"CAST(idx AS INT) AS idx, title, CAST(year AS INT) AS year, "+
			"CASE WHEN budget = 'NA' THEN 0 ELSE CAST(budget AS INT) END AS budget, "+
			"CAST(rating AS DOUBLE) AS rating FROM %s", cfg.SourceTable),
		"SELECT * FROM movies",
		"GRANT SELECT ON TABLE movies TO `analysts`",
		fmt.Sprintf("GRANT USAGE ON DATABASE %s TO `analysts`", cfg.DBName),
		"SHOW GRANTS ON TABLE movies",
	}
	for _, sql := range steps {
		fmt.Printf("\n>>> %s\n", sql)
		res, err := session.Execute(ctx, sql)
		if err != nil {
			return err
		}
		fmt.Println(res)
	}

	// Teaching point: the legacy metastore has no fine-grained grants, so
	// inspecting them there fails. The error is the expected outcome.
	legacySQL := fmt.Sprintf("SHOW GRANTS ON TABLE %s", cfg.SourceTable)
	fmt.Printf("\n>>> %s\n", legacySQL)
	if _, err := session.Execute(ctx, legacySQL); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	} else {
		return errors.New("grants query against the legacy catalog unexpectedly succeeded")
	}

	if flagKeep {
		fmt.Printf("\nkeeping database %s, run 'catmigrate reset' to clean up\n", cfg.DBName)
		return nil
	}
	return helper.Cleanup(ctx)
}

func runRepl(cmd *cobra.Command, args []string) error {
	ctx := ctxlog.WithLogger(cmd.Context(), newLogger())

	engine, err := database.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	session := executor.NewSession(engine, flagUser)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("catmigrate repl, blank line or ctrl-d to exit")
	for {
		fmt.Printf("%s@%s.%s> ", session.User(), session.CurrentCatalog(), session.CurrentDatabase())
		if !scanner.Scan() {
			break
		}
		sql := strings.TrimSpace(scanner.Text())
		if sql == "" {
			break
		}
		res, err := session.Execute(ctx, sql)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(res)
	}
	return scanner.Err()
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := ctxlog.WithLogger(cmd.Context(), newLogger())

	engine, err := database.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	helper := classroom.New(engine, flagUser, flagCatalog, flagLesson)
	if err := helper.Cleanup(ctx); err != nil {
		return err
	}
	fmt.Println("classroom environment reset")
	return nil
}
