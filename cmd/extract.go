package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the plain text extracted from a document",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		extractText(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extractText(path string) {
	ctx := context.Background()
	logger, config := setup()

	p := newPipeline(ctx, config, logger)
	if !p.extractor.Supported(path) {
		logger.Fatal("unsupported file type",
			zap.String("file", path),
			zap.String("supported", strings.Join(p.extractor.Extensions(), ", ")),
		)
	}

	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		logger.Fatal("extracting text", zap.String("file", path), zap.Error(err))
	}

	fmt.Println(text)
}
