package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubhamjakhete/spotify-agent/internal/logging"
)

var (
	viewLogsList    bool
	viewLogsSummary bool
	viewLogsFile    string
	viewLogsLevel   string
	viewLogsSearch  string
	viewLogsTail    int
)

var viewLogsCmd = &cobra.Command{
	Use:   "view-logs",
	Short: "Views and filters the agent's log files",
	Long: `Reads the JSON log files written by previous runs. By default shows the
most recent file; use --list to enumerate files, --level and --search to
filter entries, and --summary to count entries per level.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runViewLogs(os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error viewing logs: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(viewLogsCmd)

	viewLogsCmd.Flags().BoolVar(&viewLogsList, "list", false, "List available log files")
	viewLogsCmd.Flags().BoolVar(&viewLogsSummary, "summary", false, "Show entry counts per level")
	viewLogsCmd.Flags().StringVar(&viewLogsFile, "file", "", "Log file to read (default is the most recent)")
	viewLogsCmd.Flags().StringVar(&viewLogsLevel, "level", "", "Only show entries at this level")
	viewLogsCmd.Flags().StringVar(&viewLogsSearch, "search", "", "Only show entries containing this text")
	viewLogsCmd.Flags().IntVar(&viewLogsTail, "tail", 0, "Only show the last N entries")
}

func runViewLogs(out io.Writer) error {
	dir := viper.GetString("logs")

	if viewLogsList {
		return printLogFileList(out, dir)
	}

	path := viewLogsFile
	if path == "" {
		latest, err := logging.LatestFile(dir)
		if err != nil {
			return err
		}
		path = latest
	} else if filepath.Dir(path) == "." {
		path = filepath.Join(dir, path)
	}

	entries, err := logging.ReadFile(path)
	if err != nil {
		return err
	}
	entries = logging.Filter(entries, viewLogsLevel, viewLogsSearch)

	if viewLogsSummary {
		return printLogSummary(out, path, entries)
	}

	if viewLogsTail > 0 && len(entries) > viewLogsTail {
		entries = entries[len(entries)-viewLogsTail:]
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Time", "Level", "Message"})
	for _, e := range entries {
		table.Append([]string{e.Time.Format("2006-01-02 15:04:05"), e.Level, e.Message})
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering log table: %w", err)
	}
	fmt.Fprintf(out, "%d entries from %s\n", len(entries), path)
	return nil
}

func printLogFileList(out io.Writer, dir string) error {
	files, err := logging.ListFiles(dir)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"File", "Size", "Modified"})
	for _, f := range files {
		table.Append([]string{
			f.Name,
			strconv.FormatInt(f.Size, 10),
			f.Modified.Format("2006-01-02 15:04:05"),
		})
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering file table: %w", err)
	}
	return nil
}

func printLogSummary(out io.Writer, path string, entries []logging.Entry) error {
	counts := logging.Summarize(entries)
	levels := make([]string, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Level", "Entries"})
	for _, level := range levels {
		table.Append([]string{level, strconv.Itoa(counts[level])})
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering summary table: %w", err)
	}
	fmt.Fprintf(out, "%d entries from %s\n", len(entries), path)
	return nil
}
