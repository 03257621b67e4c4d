package main

import (
	"fmt"

	"github.com/runixer/telebind/internal/archive"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "Write the client state as JSON, to stdout or a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getServices(cmd).Client
			if mustGetBool(cmd, "poll") {
				if err := client.Poll(cmd.Context()); err != nil {
					return fmt.Errorf("failed to poll: %w", err)
				}
			}
			if len(args) == 0 {
				return client.Dump(cmd.OutOrStdout())
			}
			return client.DumpTo(args[0])
		},
	}
	cmd.Flags().Bool("poll", false, "Poll once before dumping")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <chat_id>",
		Short: "Show archived messages of a chat from the SQLite archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := parseID("chat_id", args[0])
			if err != nil {
				return err
			}
			cfg := getConfig(cmd)
			if cfg.Archive.SQLitePath == "" {
				return fmt.Errorf("archive.sqlite_path is not configured")
			}

			sink, err := archive.NewSQLiteSink(getLogger(cmd), cfg.Archive.SQLitePath)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer sink.Close()

			msgs, err := sink.Recent(cmd.Context(), chatID, mustGetInt(cmd, "limit"))
			if err != nil {
				return fmt.Errorf("failed to read archive: %w", err)
			}
			printMessage := messagePrinter(cmd.OutOrStdout(), mustGetBool(cmd, "json"))
			for _, msg := range msgs {
				printMessage(msg)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Number of most recent messages")
	cmd.Flags().Bool("json", false, "Print messages as JSON lines")
	return cmd
}
