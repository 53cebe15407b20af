package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrwolf/companion-server/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect dataset files",
}

var datasetShowCmd = &cobra.Command{
	Use:   "show PATH",
	Short: "Print the normalized lines of a dataset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := dataset.NewStore(args[0])
		rendered, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if rendered != "" {
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Dataset contains %d lines.\n", store.Len())
		return nil
	},
}

func init() {
	datasetCmd.AddCommand(datasetShowCmd)
}
