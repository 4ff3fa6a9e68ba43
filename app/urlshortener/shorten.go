package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
)

var shortenCmd = &cobra.Command{
	Use:     "shorten <long-url>",
	Short:   "Create or look up the short url of a long url.",
	Example: `  urlshortener shorten "https://www.google.com/search?q=go+lang"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := loggerKit.NewNopLogger()

		app, err := createApplication(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer app.Close(logger)

		shortURL, err := app.urlUseCase.Create(cmd.Context(), args[0])
		if err != nil {
			return errors.Wrap(err, "shorten url failed")
		}
		cmd.Printf("short key: %s\nshort url: %s\n", shortURL.ShortKey, shortURL.ShortURL)
		return nil
	},
}
