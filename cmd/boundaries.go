package main

import "github.com/spf13/cobra"

var boundariesCmd = &cobra.Command{
	Use:   "boundaries",
	Short: "Manage the reference boundary dataset",
	Long:  "Download and inspect the administrative boundary dataset records are classified against.",
}

func init() { rootCmd.AddCommand(boundariesCmd) }
