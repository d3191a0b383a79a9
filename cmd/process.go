package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/shubhamjakhete/spotify-agent/internal/dataset"
)

var processOutput string
var processFormat string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Processes a Spotify export into an analysis-ready dataset",
	Long: `Loads the export directory, cleans and normalizes the records, runs the
listening analysis and duplicate detection, and writes the combined dataset
to a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runProcess(os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing export: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processOutput, "output", "o", "processed_dataset.json", "Output file path")
	processCmd.Flags().StringVar(&processFormat, "format", "json", "Output format: json or yaml")
}

func runProcess(out io.Writer) error {
	logger, err := setupLogger()
	if err != nil {
		return err
	}

	ds, err := dataset.Process(viper.GetString("data"), logger, time.Now())
	if err != nil {
		return err
	}

	switch processFormat {
	case "json":
		if err := ds.WriteFile(processOutput); err != nil {
			return err
		}

	case "yaml":
		file, err := os.Create(processOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()

		encoder := yaml.NewEncoder(file)
		encoder.SetIndent(2)
		if err := encoder.Encode(ds); err != nil {
			return fmt.Errorf("encoding dataset: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("flushing output file: %w", err)
		}

	default:
		return fmt.Errorf("unknown format %q", processFormat)
	}

	fmt.Fprintf(out, "Processed %d streaming records, %d monthly stats, %d library tracks\n",
		ds.Summary.Records.StreamingEvents, ds.Summary.Records.MonthlyStats, ds.Summary.Records.LibraryTracks)
	fmt.Fprintf(out, "Wrote dataset to %s\n", processOutput)
	return nil
}
