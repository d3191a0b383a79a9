package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/shubhamjakhete/spotify-agent/internal/logging"
)

var cfgFile string
var dataDir string
var databasePath string
var logDir string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "spotify-agent",
	Short: "Processes and analyzes Spotify listening history exports",
	Long: `Reads a Spotify data export directory, cleans and normalizes the
records, and produces analysis-ready datasets and reports.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-agent.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&dataDir, "data", "", "./spotify_data", "Path to the Spotify export directory")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./spotify.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&logDir, "logs", "./logs", "Path to the log directory")
	viper.BindPFlag("logs", rootCmd.PersistentFlags().Lookup("logs"))

	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-agent" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-agent")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// setupLogger builds the process logger from the configured log directory
// and level.
func setupLogger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	logger, _, err := logging.Setup(viper.GetString("logs"), level, time.Now())
	if err != nil {
		return nil, err
	}
	return logger, nil
}
