package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	utilKit "github.com/superj80820/url-shortener/kit/util"
	"github.com/superj80820/url-shortener/urlshortener/config"
)

const (
	SYSTEM_NAME  = "system"
	SERVICE_NAME = "url_shortener"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "urlshortener",
	Short:         "Shorten long urls and resolve short keys.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath, envFile)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", utilKit.GetEnvString("CONFIG_FILE", ""), "yaml config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, shortenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
