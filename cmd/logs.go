package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	logsRecentLines  int
	logsSearchWindow int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Read the server console log",
}

var logsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recent console lines",
	Args:  cobra.NoArgs,
	RunE:  runLogsRecent,
}

var logsSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search recent console lines, case-insensitively",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogsSearch,
}

var logsActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent player connection activity",
	Args:  cobra.NoArgs,
	RunE:  runLogsActivity,
}

func init() {
	logsRecentCmd.Flags().IntVar(&logsRecentLines, "lines", 50, "number of lines to print")
	logsSearchCmd.Flags().IntVar(&logsSearchWindow, "window", 100, "number of recent lines to search")

	logsCmd.AddCommand(logsRecentCmd)
	logsCmd.AddCommand(logsSearchCmd)
	logsCmd.AddCommand(logsActivityCmd)
}

func runLogsRecent(cmd *cobra.Command, args []string) error {
	if err := requireServerDir(); err != nil {
		return err
	}
	lines, err := logSource().RecentLines(logsRecentLines)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func runLogsSearch(cmd *cobra.Command, args []string) error {
	if err := requireServerDir(); err != nil {
		return err
	}
	matches, err := logSource().Search(args[0], logsSearchWindow)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintf(os.Stdout, "No lines matching %q in the last %d.\n", args[0], logsSearchWindow)
		return nil
	}
	for _, line := range matches {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func runLogsActivity(cmd *cobra.Command, args []string) error {
	if err := requireServerDir(); err != nil {
		return err
	}
	activity, err := logSource().PlayerActivity(cfg.FetchLines)
	if err != nil {
		return err
	}
	if len(activity) == 0 {
		fmt.Fprintln(os.Stdout, "No player activity in the recent log.")
		return nil
	}
	for _, line := range activity {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
