package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubhamjakhete/spotify-agent/internal/store"
)

var (
	topNArtists int
	topNTracks  int
)

var topNCmd = &cobra.Command{
	Use:   "top-n [from] [to (optional)]",
	Short: "Shows the top artists and tracks over a period",
	Long: `Queries the imported listening history for the top artists and tracks
over the specified date or date range. Date strings look like 'yyyy',
'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopN(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topNCmd)
	topNCmd.Flags().IntVar(&topNArtists, "artists", 10, "Number of top artists to show")
	topNCmd.Flags().IntVar(&topNTracks, "tracks", 10, "Number of top tracks to show")
}

func printTopN(out io.Writer, dbPath string, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	count, err := s.CountListens()
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no listens stored - run import first")
	}

	artists, err := s.GetTopArtists(start, end, topNArtists)
	if err != nil {
		return err
	}
	tracks, err := s.GetTopTracks(start, end, topNTracks)
	if err != nil {
		return err
	}

	const dateFormat = "2006-01-02"
	fmt.Fprintf(out, "Top listening from %s to %s\n\n", start.Format(dateFormat), end.Format(dateFormat))

	fmt.Fprintln(out, "### Top Artists")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Streams", "Minutes"})
	for _, r := range artists {
		table.Append([]string{
			r.Artist,
			strconv.FormatInt(r.Streams, 10),
			strconv.FormatFloat(r.Seconds/60, 'f', 1, 64),
		})
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering artist table: %w", err)
	}

	fmt.Fprintln(out, "\n### Top Tracks")
	table = tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Track", "Streams", "Minutes"})
	for _, r := range tracks {
		table.Append([]string{
			r.Artist,
			r.Track,
			strconv.FormatInt(r.Streams, 10),
			strconv.FormatFloat(r.Seconds/60, 'f', 1, 64),
		})
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering track table: %w", err)
	}

	return nil
}
