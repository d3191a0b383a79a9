package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
	"github.com/shubhamjakhete/spotify-agent/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a Spotify export into the local database",
	Long: `Loads the export directory and stores the cleaned streaming history and
library snapshot in the SQLite database. Listens already present are skipped,
so re-importing overlapping exports is safe.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runImport(os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing export: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(out io.Writer) error {
	logger, err := setupLogger()
	if err != nil {
		return err
	}

	arch, err := archive.NewLoader(viper.GetString("data"), logger).Load()
	if err != nil {
		return err
	}

	s, err := store.New(viper.GetString("database"))
	if err != nil {
		return err
	}
	defer s.Close()

	added, err := s.ImportStreamingHistory(arch.StreamingHistory)
	if err != nil {
		return fmt.Errorf("importing streaming history: %w", err)
	}
	if err := s.ImportLibrary(arch.Library); err != nil {
		return fmt.Errorf("importing library: %w", err)
	}
	if err := s.SetLastImported(time.Now()); err != nil {
		return err
	}

	skipped := len(arch.StreamingHistory) - added
	fmt.Fprintf(out, "Imported %d new listens (%d already present), %d library tracks\n",
		added, skipped, len(arch.Library.Tracks))
	return nil
}
