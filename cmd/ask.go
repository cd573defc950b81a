package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spigell/careerfit/internal/analysis"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Answer a question about a document",
	Args:  cobra.MinimumNArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		ask(args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func ask(path, question string) {
	ctx := context.Background()
	logger, config := setup()

	p := newPipeline(ctx, config, logger)

	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		logger.Fatal("extracting text", zap.String("file", path), zap.Error(err))
	}

	logger.Debug("answering question", zap.String("question", question))

	fmt.Println(analysis.Answer(text, question))
}
