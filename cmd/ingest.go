package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/aggregator"
	"github.com/travisw1990/spiffo-pz-bot/internal/logsource"
	"github.com/travisw1990/spiffo-pz-bot/internal/parser"
	"github.com/travisw1990/spiffo-pz-bot/internal/report"
)

var ingestNewOnly bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [logfile...]",
	Short: "Parse server log lines and merge player statistics",
	Long: `Parse Project Zomboid server log lines, fold the recognized events into the
stored per-player statistics, and save the result. Unrecognized lines are
skipped.

Input comes from file arguments, from stdin with "-", or with --new-only from
the newest file in the server log directory, resuming where the previous
ingest stopped.

Example:
  pzstats ingest Logs/25-08-24_console.txt
  tail -n 500 server-console.txt | pzstats ingest -
  pzstats ingest --new-only --server-dir /srv/pzserver`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestNewOnly, "new-only", false,
		"read only lines added to the newest server log since the last ingest")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !ingestNewOnly {
		return fmt.Errorf("no input: pass log files, \"-\" for stdin, or --new-only")
	}
	if len(args) > 0 && ingestNewOnly {
		return fmt.Errorf("--new-only reads from the server log directory, not from file arguments")
	}

	var lines []string
	var advance func() error

	if ingestNewOnly {
		if err := requireServerDir(); err != nil {
			return err
		}
		cur, err := openCursor()
		if err != nil {
			return err
		}
		defer cur.Close()

		path, err := logSource().LatestLogFile()
		if err != nil {
			return err
		}
		pos, _, err := cur.Get(path)
		if err != nil {
			return err
		}
		lines, pos, err = logsource.ReadNew(path, pos)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Reading %s\n", path)
		advance = func() error { return cur.Put(path, pos) }
	} else {
		for _, arg := range args {
			fileLines, err := readInput(arg)
			if err != nil {
				return err
			}
			lines = append(lines, fileLines...)
		}
	}

	events := parser.ParseLines(lines)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	sum := aggregator.Apply(players, events)
	if err := db.SaveSnapshot(players); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	// Advance the cursor only after the merge is safely on disk, so a failed
	// run re-reads the same lines instead of dropping them.
	if advance != nil {
		if err := advance(); err != nil {
			return fmt.Errorf("save cursor: %w", err)
		}
	}

	fmt.Fprintf(os.Stdout, "Read %d lines\n", len(lines))
	report.PrintIngestSummary(os.Stdout, sum)
	return nil
}

func readInput(arg string) ([]string, error) {
	if arg == "-" {
		return scanLines(os.Stdin)
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", arg, err)
	}
	defer f.Close()
	lines, err := scanLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return lines, nil
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
