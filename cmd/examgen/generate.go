package main

import (
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	generateQuery      string
	generateType       string
	generateCount      int
	generateDifficulty string
	generateK          int
	generateTopN       int
)

func init() {
	generateCmd.Flags().StringVar(&generateQuery, "query", "", "concept the questions should test (required)")
	generateCmd.Flags().StringVar(&generateType, "type", string(models.QuestionMCQ), "question type: mcq or open-ended")
	generateCmd.Flags().IntVar(&generateCount, "count", 5, "requested number of questions")
	generateCmd.Flags().StringVar(&generateDifficulty, "difficulty", string(models.DifficultyBeginner), "beginner, intermediate or advanced")
	generateCmd.Flags().IntVar(&generateK, "k", 0, "passages to retrieve (0 uses RETRIEVAL_K)")
	generateCmd.Flags().IntVar(&generateTopN, "top-n", 0, "passages kept after reranking (0 uses RERANK_TOP_N)")

	_ = generateCmd.MarkFlagRequired("query")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the pipeline once and print the exam as JSON",
	Long: `Run retrieval, filtering, reranking and question synthesis once, without the
HTTP API or the database, and print the generated exam.

Examples:
  examgen generate --query "binary search" --type mcq --count 5 --difficulty beginner`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	examPipeline, err := c.newPipeline(nil)
	if err != nil {
		return err
	}

	exam, err := examPipeline.Run(ctx, pipeline.Request{
		Query:         generateQuery,
		QuestionType:  generateType,
		QuestionCount: generateCount,
		Difficulty:    generateDifficulty,
		K:             generateK,
		TopN:          generateTopN,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(exam, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding exam: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
