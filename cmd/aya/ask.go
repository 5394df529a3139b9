package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"aya-hq/companion/pkg/chat"
	"aya-hq/companion/pkg/cli"

	"github.com/spf13/cobra"
)

var askFlags struct {
	language    string
	sessionID   string
	interactive bool
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the assistant a question from the terminal",
	Long: `Send a message through the same pipeline the API uses: locale
resolution, personal information screening, session history and the model
endpoint.

With --interactive, each line read from standard input is sent as a new
message in the same session until end of input.

Examples:
  # One question in Spanish
  aya ask --language es "¿Dónde está la clínica?"

  # A conversation
  aya ask --interactive --language ru

  # Machine-readable output
  aya ask -o json "What is the AYA program?"`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askFlags.language, "language", "l", "en", "reply language (en, es, zh, ru, ar, he, yi)")
	askCmd.Flags().StringVar(&askFlags.sessionID, "session", "", "session ID (a new one is created when empty)")
	askCmd.Flags().BoolVarP(&askFlags.interactive, "interactive", "i", false, "read messages from standard input")
}

func runAsk(cmd *cobra.Command, args []string) error {
	if !askFlags.interactive && len(args) == 0 {
		return cli.NewConfigError("message", "a message argument is required unless --interactive is set")
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	formatter := cli.NewFormatter(format)
	out := cmd.OutOrStdout()

	if !askFlags.interactive {
		req := chat.Request{
			SessionID: askFlags.sessionID,
			Message:   strings.Join(args, " "),
			Language:  askFlags.language,
		}
		return ask(ctx, a.chat, formatter, out, req)
	}

	return askInteractive(ctx, a.chat, formatter, cmd.InOrStdin(), out, askFlags.sessionID, askFlags.language)
}

// ask sends one message and prints the reply.
func ask(ctx context.Context, h *chat.Handler, f cli.Formatter, out io.Writer, req chat.Request) error {
	resp, err := h.Send(ctx, req)
	if err != nil {
		return cli.NewConfigError("message", err.Error())
	}
	if err := f.FormatTo(out, askOutput(f, resp)); err != nil {
		return err
	}
	if resp.Failed() {
		return cli.NewCommandError("ask", fmt.Errorf("model request failed: %s", resp.ErrorKind))
	}
	return nil
}

// askInteractive sends each non-blank line of in as a message in one
// session. Failed replies are printed and the conversation continues.
func askInteractive(ctx context.Context, h *chat.Handler, f cli.Formatter, in io.Reader, out io.Writer, sessionID, language string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp, err := h.Send(ctx, chat.Request{SessionID: sessionID, Message: line, Language: language})
		if errors.Is(err, chat.ErrMessageTooLong) {
			fmt.Fprintln(out, err)
			continue
		}
		if err != nil {
			return cli.NewConfigError("message", err.Error())
		}
		sessionID = resp.SessionID

		if err := f.FormatTo(out, askOutput(f, resp)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func askOutput(f cli.Formatter, resp chat.Response) any {
	if _, ok := f.(*cli.JSONFormatter); ok {
		return resp
	}

	var sb strings.Builder
	sb.WriteString(resp.Message)
	if resp.PIIDetection != nil && resp.PIIDetection.RedactionNotice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(resp.PIIDetection.RedactionNotice)
	}
	for _, action := range resp.Actions {
		fmt.Fprintf(&sb, "\n  → %s: %s", action.Label, action.Href)
	}
	for _, c := range resp.Citations {
		fmt.Fprintf(&sb, "\n  [%s] %s", c.Title, c.URL)
	}
	return sb.String()
}
