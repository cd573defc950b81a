package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/careerfit/internal/analysis"
	"github.com/spigell/careerfit/internal/domain"
	"go.uber.org/zap"
)

const (
	formatJSON = "json"
	formatText = "text"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract a document and print its career-fit analysis",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("skills", "", "skills you want to be matched on")
	analyzeCmd.Flags().String("profession", "", "your current or desired profession")
	analyzeCmd.Flags().String("interests", "", "professional interests, used when profession is empty")
	analyzeCmd.Flags().String("target-title", "", "title of the job you are aiming for")
	analyzeCmd.Flags().String("target-description", "", "description of the job you are aiming for")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "ask for the context fields interactively")
	analyzeCmd.Flags().StringP("format", "o", formatJSON, "output format: json or text")
	analyzeCmd.Flags().Bool("fast", false, "heuristic analysis only: no research, no remote model")

	viper.BindPFlag("fast-mode", analyzeCmd.Flags().Lookup("fast"))
}

func analyze(cmd *cobra.Command, path string) {
	ctx := context.Background()
	logger, config := setup()

	format := strings.ToLower(cmd.Flag("format").Value.String())
	if format != formatJSON && format != formatText {
		logger.Fatal("unsupported output format", zap.String("format", format))
	}

	user := userContextFromFlags(cmd)
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		var err error
		user, err = promptUserContext(user)
		if err != nil {
			logger.Fatal("reading context", zap.Error(err))
		}
	}

	p := newPipeline(ctx, config, logger)

	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		logger.Fatal("extracting text", zap.String("file", path), zap.Error(err))
	}

	logger.Info("text extracted", zap.String("file", path), zap.Int("length", len(text)))

	result := p.engine.Analyze(ctx, text, user)

	if err := writeResult(os.Stdout, result, format); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}
}

func userContextFromFlags(cmd *cobra.Command) domain.UserContext {
	get := func(name string) string {
		value, _ := cmd.Flags().GetString(name)
		return value
	}

	return domain.UserContext{
		Skills:               get("skills"),
		Profession:           get("profession"),
		Interests:            get("interests"),
		TargetJobTitle:       get("target-title"),
		TargetJobDescription: get("target-description"),
	}
}

type contextField struct {
	label string
	value *string
}

// promptUserContext asks for every context field, offering the flag value as default.
func promptUserContext(user domain.UserContext) (domain.UserContext, error) {
	fields := []contextField{
		{label: "Skills", value: &user.Skills},
		{label: "Profession", value: &user.Profession},
		{label: "Interests", value: &user.Interests},
		{label: "Target job title", value: &user.TargetJobTitle},
		{label: "Target job description", value: &user.TargetJobDescription},
	}

	for _, f := range fields {
		prompt := promptui.Prompt{
			Label:     f.label,
			Default:   *f.value,
			AllowEdit: true,
		}

		answer, err := prompt.Run()
		if err != nil {
			return user, fmt.Errorf("prompt for %s: %w", strings.ToLower(f.label), err)
		}
		*f.value = answer
	}

	return user, nil
}

func writeResult(w io.Writer, result analysis.Result, format string) error {
	if format == formatText {
		_, err := fmt.Fprintln(w, result.Summary)
		return err
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}
