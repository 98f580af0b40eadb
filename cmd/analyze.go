package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/muhammadolammi/careermatchworker/internal/analysis"
	"github.com/muhammadolammi/careermatchworker/internal/document"
	"github.com/muhammadolammi/careermatchworker/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a single PDF or Word resume and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("target-role", "", "role the candidate is aiming for")
	analyzeCmd.Flags().Bool("facts-only", false, "only extract facts, skip recommendations, gaps and learning paths")
	analyzeCmd.Flags().String("media-type", "", "media type of FILE (detected from content when empty)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	cfg, err := getConfig()
	if err != nil {
		return err
	}
	careers, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	flags := cmd.Flags()
	mediaType, _ := flags.GetString("media-type")
	if mediaType == "" {
		mediaType = document.Detect(data)
	}
	targetRole, _ := flags.GetString("target-role")
	factsOnly, _ := flags.GetBool("facts-only")

	log.Debug("analyzing resume",
		zap.String("file", args[0]),
		zap.String("media_type", mediaType),
		zap.Int("bytes", len(data)),
	)

	a := analysis.New(careers, document.NewTextExtractor())
	res, err := a.Analyze(cmd.Context(), analysis.Request{
		Content:    data,
		MediaType:  mediaType,
		TargetRole: targetRole,
		FactsOnly:  factsOnly,
	})
	if err != nil {
		log.Error("analysis failed", zap.String("kind", analysis.Kind(err)), zap.Error(err))
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
