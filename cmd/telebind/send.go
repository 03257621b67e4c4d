package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/runixer/telebind/internal/telegram"
	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <chat_id> <text>...",
		Short: "Send a text message",
		Long: `Send a text message. Texts longer than the Bot API limit are split into
several messages at paragraph and line boundaries.

Negative chat ids (groups and channels) need a "--" before them:
  telebind send -- -1001234567890 "hello group"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := parseID("chat_id", args[0])
			if err != nil {
				return err
			}
			opts, err := sendOptions(cmd)
			if err != nil {
				return err
			}
			opts.DisableWebPagePreview = mustGetBool(cmd, "no-preview")

			client := getServices(cmd).Client
			chunks := telegram.SplitText(strings.Join(args[1:], " "), telegram.MaxMessageLength)
			for i, chunk := range chunks {
				chunkOpts := *opts
				if i > 0 {
					chunkOpts.ReplyToMessageID = 0
				}
				if i < len(chunks)-1 {
					chunkOpts.ReplyMarkup = nil
				}
				msg, err := client.SendMessage(cmd.Context(), telegram.ChatID(chatID), chunk, &chunkOpts)
				if err != nil {
					return fmt.Errorf("failed to send message: %w", err)
				}
				printSent(cmd.OutOrStdout(), msg)
			}
			return nil
		},
	}
	addReplyFlags(cmd)
	cmd.Flags().Bool("no-preview", false, "Disable link previews")
	cmd.Flags().String("keyboard", "", `Custom keyboard: buttons separated by ",", rows by ";"`)
	cmd.Flags().Bool("one-time", false, "Hide the custom keyboard after one use")
	cmd.Flags().Bool("hide-keyboard", false, "Remove the current custom keyboard")
	cmd.Flags().Bool("force-reply", false, "Ask the client to show a reply interface")
	return cmd
}

func newSendMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send-media <photo|audio|voice|document|sticker|video> <chat_id>",
		Short: "Send a file, either uploaded or by file_id",
		Long: `Send a photo, audio, voice note, document, sticker or video. Exactly one
of --file (upload a local file) and --file-id (re-send a file the server
already has) must be given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := telegram.MediaKind(args[0])
			chatID, err := parseID("chat_id", args[1])
			if err != nil {
				return err
			}
			opts, err := sendOptions(cmd)
			if err != nil {
				return err
			}
			opts.Caption = mustGetString(cmd, "caption")

			var file *telegram.InputFile
			if path := mustGetString(cmd, "file"); path != "" {
				if file, err = telegram.OpenInputFile(path); err != nil {
					return err
				}
			}
			media, err := telegram.SelectMedia(file, mustGetString(cmd, "file-id"))
			if err != nil {
				if file != nil {
					_ = file.Close()
				}
				return err
			}

			msg, err := sendMedia(cmd, getServices(cmd).Client, kind, telegram.ChatID(chatID), media, opts)
			if err != nil {
				return fmt.Errorf("failed to send %s: %w", kind, err)
			}
			printSent(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	addReplyFlags(cmd)
	cmd.Flags().String("file", "", "Local file to upload")
	cmd.Flags().String("file-id", "", "file_id of an already uploaded file")
	cmd.Flags().String("caption", "", "Caption for the media")
	cmd.Flags().String("keyboard", "", `Custom keyboard: buttons separated by ",", rows by ";"`)
	cmd.Flags().Bool("one-time", false, "Hide the custom keyboard after one use")
	cmd.Flags().Bool("hide-keyboard", false, "Remove the current custom keyboard")
	cmd.Flags().Bool("force-reply", false, "Ask the client to show a reply interface")
	return cmd
}

// sendMedia goes through the typed senders so that auto-status applies.
func sendMedia(cmd *cobra.Command, c *telegram.Client, kind telegram.MediaKind, to telegram.Recipient, media telegram.Media, opts *telegram.SendOptions) (*telegram.Message, error) {
	ctx := cmd.Context()
	switch kind {
	case telegram.KindPhoto:
		return c.SendPhoto(ctx, to, media, opts)
	case telegram.KindAudio:
		return c.SendAudio(ctx, to, media, opts)
	case telegram.KindVoice:
		return c.SendVoice(ctx, to, media, opts)
	case telegram.KindDocument:
		return c.SendDocument(ctx, to, media, opts)
	case telegram.KindSticker:
		return c.SendSticker(ctx, to, media, opts)
	case telegram.KindVideo:
		return c.SendVideo(ctx, to, media, opts)
	}
	return c.SendObject(ctx, to, media, kind, opts)
}

func newSendLocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send-location <chat_id> <latitude> <longitude>",
		Short: "Send a point on the map",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := parseID("chat_id", args[0])
			if err != nil {
				return err
			}
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[1])
			}
			lon, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[2])
			}
			opts, err := sendOptions(cmd)
			if err != nil {
				return err
			}

			msg, err := getServices(cmd).Client.SendLocation(cmd.Context(), telegram.ChatID(chatID),
				telegram.Location{Latitude: lat, Longitude: lon}, opts)
			if err != nil {
				return fmt.Errorf("failed to send location: %w", err)
			}
			printSent(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	addReplyFlags(cmd)
	return cmd
}

func newActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action <chat_id> <action>",
		Short: "Show a chat action such as typing or upload_photo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := parseID("chat_id", args[0])
			if err != nil {
				return err
			}
			action := telegram.ChatAction(args[1])
			if err := getServices(cmd).Client.SetChatAction(cmd.Context(), telegram.ChatID(chatID), action); err != nil {
				return fmt.Errorf("failed to send chat action: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %d\n", action, chatID)
			return nil
		},
	}
}

func newForwardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forward <to_chat_id> <from_chat_id> <message_id>",
		Short: "Forward a message to another chat",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseID("to_chat_id", args[0])
			if err != nil {
				return err
			}
			from, err := parseID("from_chat_id", args[1])
			if err != nil {
				return err
			}
			messageID, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid message_id %q: must be an integer", args[2])
			}

			src := &telegram.Message{MessageID: messageID, Chat: telegram.Chat{ID: from}}
			msg, err := getServices(cmd).Client.ForwardMessage(cmd.Context(), telegram.ChatID(to), src)
			if err != nil {
				return fmt.Errorf("failed to forward message: %w", err)
			}
			printSent(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func addReplyFlags(cmd *cobra.Command) {
	cmd.Flags().Int("reply-to", 0, "Message id to reply to")
}

// sendOptions builds the reply parameters shared by the send commands.
func sendOptions(cmd *cobra.Command) (*telegram.SendOptions, error) {
	opts := &telegram.SendOptions{ReplyToMessageID: mustGetInt(cmd, "reply-to")}
	if cmd.Flags().Lookup("keyboard") == nil {
		return opts, nil
	}

	markup, err := replyMarkup(
		mustGetString(cmd, "keyboard"),
		mustGetBool(cmd, "one-time"),
		mustGetBool(cmd, "hide-keyboard"),
		mustGetBool(cmd, "force-reply"),
	)
	if err != nil {
		return nil, err
	}
	opts.ReplyMarkup = markup
	return opts, nil
}

func replyMarkup(keyboard string, oneTime, hide, forceReply bool) (telegram.ReplyMarkup, error) {
	set := 0
	for _, b := range []bool{keyboard != "", hide, forceReply} {
		if b {
			set++
		}
	}
	if set > 1 {
		return nil, errors.New("--keyboard, --hide-keyboard and --force-reply are mutually exclusive")
	}

	switch {
	case keyboard != "":
		return telegram.ReplyKeyboardMarkup{
			Keyboard:        parseKeyboard(keyboard),
			ResizeKeyboard:  true,
			OneTimeKeyboard: oneTime,
		}, nil
	case hide:
		return telegram.ReplyKeyboardHide{}, nil
	case forceReply:
		return telegram.ForceReply{}, nil
	}
	return nil, nil
}

// parseKeyboard turns "yes,no;cancel" into [["yes","no"],["cancel"]].
// Empty buttons and rows are dropped.
func parseKeyboard(s string) [][]string {
	var rows [][]string
	for _, rawRow := range strings.Split(s, ";") {
		var row []string
		for _, button := range strings.Split(rawRow, ",") {
			if button = strings.TrimSpace(button); button != "" {
				row = append(row, button)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func printSent(w io.Writer, msg *telegram.Message) {
	fmt.Fprintf(w, "sent message %d to %s\n", msg.MessageID, msg.Chat)
}
