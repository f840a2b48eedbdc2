package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/intake"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Report an issue through an interactive terminal conversation",
	Long: `Runs the intake conversation in the terminal against the configured
stores. Type "quit" or press Ctrl+C to leave. Pass --session to continue an
earlier conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		sessionID := chatSession
		prompt := promptui.Prompt{Label: "You"}
		for {
			line, err := prompt.Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			if q := strings.ToLower(strings.TrimSpace(line)); q == "quit" || q == "exit" {
				break
			}

			sessionID = chatTurn(ctx, a.agent, logger, out, sessionID, line)
		}

		if sessionID != "" {
			fmt.Fprintf(out, "Session %s saved. Resume with: intake chat --session %s\n", sessionID, sessionID)
		}
		return nil
	},
}

const chatFailureReply = "Agent: sorry, I could not process your message. Please try again."

type conversation interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*intake.Result, error)
}

// chatTurn sends one line to the agent and prints the reply. It returns the
// session to continue with; a failed turn keeps the current one.
func chatTurn(ctx context.Context, agent conversation, logger *zap.Logger, out io.Writer, sessionID, line string) string {
	res, err := agent.HandleMessage(ctx, sessionID, line)
	if err != nil {
		logger.Error("chat turn failed", zap.String("session_id", sessionID), zap.Error(err))
		fmt.Fprintln(out, chatFailureReply)
		return sessionID
	}
	fmt.Fprintf(out, "Agent: %s\n", res.Response)
	if verbose {
		fmt.Fprintf(out, "       [session=%s department=%s status=%s]\n", res.SessionID, res.Department, res.Status)
	}
	return res.SessionID
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session id to continue")
	rootCmd.AddCommand(chatCmd)
}
