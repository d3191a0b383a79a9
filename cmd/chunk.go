package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubhamjakhete/spotify-agent/internal/dataset"
)

var chunkLimit int

var chunkCmd = &cobra.Command{
	Use:   "chunk [year]",
	Short: "Extracts a compact text summary of one year's listening",
	Long: `Processes the export directory and prints a bounded text summary of the
given year: recent tracks, top artists, and top genres. The summary is sized
for pasting into a prompt or note.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runChunk(os.Stdout, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting chunk: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chunkCmd)
	chunkCmd.Flags().IntVar(&chunkLimit, "limit", 20, "Maximum entries per section")
}

func runChunk(out io.Writer, yearArg string) error {
	year, err := strconv.Atoi(yearArg)
	if err != nil {
		return fmt.Errorf("invalid year %q", yearArg)
	}

	logger, err := setupLogger()
	if err != nil {
		return err
	}

	ds, err := dataset.Process(viper.GetString("data"), logger, time.Now())
	if err != nil {
		return err
	}

	chunk := ds.YearChunk(year, chunkLimit)
	fmt.Fprintf(out, "Listening summary for %d\n\n", year)
	fmt.Fprintf(out, "Recent tracks: %s\n", chunk.RecentTracks)
	fmt.Fprintf(out, "Top artists: %s\n", chunk.TopArtists)
	fmt.Fprintf(out, "Top genres: %s\n", chunk.TopGenres)
	return nil
}
