package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/api"
	"github.com/ziadkadry99/city-intake/internal/classify"
	"github.com/ziadkadry99/city-intake/internal/progress"
)

var classifyFile string

var classifyCmd = &cobra.Command{
	Use:   "classify [message]",
	Short: "Print the department a message would be routed to",
	Long: `Classifies a single message given as arguments, or every non-empty line
of --file ("-" reads stdin) and prints the results as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if classifyFile == "" && len(args) == 0 {
			return fmt.Errorf("pass a message or --file")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		classifier := newClassifier(cfg, logger)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if classifyFile == "" {
			message := strings.Join(args, " ")
			dept := classifier.Classify(cmd.Context(), message)
			logger.Debug("classified message", zap.String("department", string(dept)))
			return enc.Encode(api.NewClassifyResponse(message, dept))
		}

		messages, err := readMessages(classifyFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return enc.Encode(classifyBatch(cmd.Context(), classifier, messages, progress.NewReporter("Classifying messages")))
	},
}

func classifyBatch(ctx context.Context, c *classify.Classifier, messages []string, rep progress.Reporter) []api.ClassifyResponse {
	out := make([]api.ClassifyResponse, 0, len(messages))
	rep.Start(len(messages))
	for i, m := range messages {
		dept := c.Classify(ctx, m)
		out = append(out, api.NewClassifyResponse(m, dept))
		rep.Update(i+1, dept.Label())
	}
	rep.Finish()
	return out
}

// readMessages returns the non-empty lines of path, or of stdin when path
// is "-".
func readMessages(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var messages []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			messages = append(messages, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}
	return messages, nil
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", `classify each line of a file ("-" for stdin)`)
	rootCmd.AddCommand(classifyCmd)
}
