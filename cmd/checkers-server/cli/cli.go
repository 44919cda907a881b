package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"checkers/internal/server/storage"

	"golang.org/x/term"
)

// Run is the entry point for the database CLI
func Run(args []string) error {
	return run(os.Stdout, os.Stdin, args)
}

func run(out io.Writer, in io.Reader, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, stats")
	}

	switch args[0] {
	case "init":
		return runInit(out, args[1:])
	case "delete":
		return runDelete(out, in, args[1:])
	case "query":
		return runQuery(out, args[1:])
	case "stats":
		return runStats(out, args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// pathFlag registers the shared -path flag
func pathFlag(fs *flag.FlagSet) *string {
	return fs.String("path", "", "Database file path (required)")
}

func parse(fs *flag.FlagSet, path *string, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("database path required")
	}
	return nil
}

func runInit(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := pathFlag(fs)
	if err := parse(fs, path, args); err != nil {
		return err
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(out io.Writer, in io.Reader, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := pathFlag(fs)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	if err := parse(fs, path, args); err != nil {
		return err
	}

	if _, err := os.Stat(*path); err != nil {
		return fmt.Errorf("database not found: %w", err)
	}

	// Ask only when a person is at the terminal
	if !*force && isTerminal(in) {
		fmt.Fprintf(out, "Delete %s and all recorded results? [y/N] ", *path)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runQuery(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	path := pathFlag(fs)
	mode := fs.String("mode", "", "Mode to filter: pvp, pvai (optional, * for all)")
	winner := fs.String("winner", "", "Winner to filter: red, black (optional, * for all)")
	if err := parse(fs, path, args); err != nil {
		return err
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	results, err := store.QueryResults(*mode, *winner)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tMode\tWinner\tMoves\tRed\tBlack\tFinished")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(r.GameID),
			r.Mode,
			r.Winner,
			r.MoveCount,
			r.RedPieces,
			r.BlackPieces,
			r.FinishedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d result(s)\n", len(results))
	return nil
}

func runStats(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	path := pathFlag(fs)
	if err := parse(fs, path, args); err != nil {
		return err
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	sum, err := store.Summarize()
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Games\t%d\n", sum.Games)
	fmt.Fprintf(w, "Red wins\t%d\n", sum.RedWins)
	fmt.Fprintf(w, "Black wins\t%d\n", sum.BlackWins)

	modes := make([]string, 0, len(sum.ByMode))
	for m := range sum.ByMode {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		fmt.Fprintf(w, "Mode %s\t%d\n", m, sum.ByMode[m])
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
