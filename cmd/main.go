package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:          "archive",
		Short:        "media archive: books, videos and audio behind one admin password",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newThumbnailCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
