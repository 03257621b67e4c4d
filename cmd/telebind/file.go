package main

import (
	"fmt"

	"github.com/runixer/telebind/internal/telegram"
	"github.com/spf13/cobra"
)

func newFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <file_id>",
		Short: "Resolve a file_id to its download path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := getServices(cmd).Client.ResolveFile(cmd.Context(), telegram.File{FileID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to resolve file: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), file)
		},
	}
}

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <file_id> <destination>",
		Short: `Download a file; "-" writes to stdout`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getServices(cmd).Client
			ctx := cmd.Context()

			file, err := client.ResolveFile(ctx, telegram.File{FileID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to resolve file: %w", err)
			}

			if args[1] == "-" {
				_, err = client.DownloadFile(ctx, file, cmd.OutOrStdout())
				return err
			}
			n, err := client.DownloadFileTo(ctx, file, args[1])
			if err != nil {
				return fmt.Errorf("failed to download file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "downloaded %d bytes to %s\n", n, args[1])
			return nil
		},
	}
}

func newPhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos <user_id>",
		Short: "List a user's profile pictures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user_id", args[0])
			if err != nil {
				return err
			}
			photos, err := getServices(cmd).Client.UserProfilePhotos(cmd.Context(), telegram.ChatID(userID),
				mustGetInt(cmd, "offset"), mustGetInt(cmd, "limit"))
			if err != nil {
				return fmt.Errorf("failed to get profile photos: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), photos)
		},
	}
	cmd.Flags().Int("offset", 0, "Number of photos to skip")
	cmd.Flags().Int("limit", 0, "Maximum number of photos (server default when 0)")
	return cmd
}
