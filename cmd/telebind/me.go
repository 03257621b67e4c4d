package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the bot's own identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me := getServices(cmd).Client.Me()
			if mustGetBool(cmd, "json") {
				return printJSON(cmd.OutOrStdout(), me)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, ID:%d\n", me, me.ID)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}
