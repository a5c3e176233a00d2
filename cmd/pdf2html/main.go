// Package main is the pdf2html command line tool. It converts PDFs to
// self-contained HTML through Google Drive and manages the Drive authorization.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KyleBrandon/pdfhtml/pkg/convert"
	"github.com/KyleBrandon/pdfhtml/pkg/gauth"
	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// logger is configured in the root pre-run from the log_level and log_file settings
var logger = slog.Default()

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "pdf2html",
	Short: "Convert PDF files to self-contained HTML with Google Drive",
	Long: `pdf2html uploads a PDF to Google Drive as a Google Doc, exports it as HTML,
deletes the temporary Doc and embeds every referenced image as a data URI so the
result renders offline.

Run "pdf2html auth" once to authorize Google Drive access.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		w, closer, err := utils.OpenLogFile(viper.GetString("log_file"))
		if err != nil {
			return err
		}
		closeLog = closer
		logger = utils.ConfigureLogging(viper.GetString("log_level"), w)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pdf2html.yaml or ~/.config/pdf2html/pdf2html.yaml)")
	flags.String("credentials", gauth.DefaultCredentialsPath, "Google OAuth client credentials JSON file")
	flags.String("token", gauth.DefaultTokenPath, "authorized user token JSON file")
	flags.String("log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.String("log-file", "", "log file path (logs to stderr if not specified)")

	viper.BindPFlag("credentials", flags.Lookup("credentials"))
	viper.BindPFlag("token", flags.Lookup("token"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_file", flags.Lookup("log-file"))
}

func initConfig() {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded .env")
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2html")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2html"))
		}
	}

	viper.SetEnvPrefix("PDF2HTML")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func credentialPaths() gauth.Paths {
	return gauth.Paths{
		Credentials: viper.GetString("credentials"),
		Token:       viper.GetString("token"),
	}
}

// conversionConfig builds the pipeline configuration from the resolved settings
func conversionConfig() convert.Config {
	cfg := convert.Config{
		Paths:    credentialPaths(),
		FolderID: viper.GetString("folder_id"),
		Logger:   logger,
	}

	if attempts := viper.GetInt("retry_attempts"); attempts > 0 {
		cfg.Retry = convert.RetryPolicy{
			Attempts: attempts,
			Delay:    convert.DefaultRetryPolicy.Delay,
		}
		if delay := viper.GetDuration("retry_delay"); delay > 0 {
			cfg.Retry.Delay = delay
		}
	}

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
