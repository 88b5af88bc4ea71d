package main

import (
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/vectorstore"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Split text files and add them to the vector store",
	Long: `Split text files into overlapping chunks and add them to the configured vector
store with their source file and chunk index as metadata.

Examples:
  # Index course notes into the embedded store
  examgen ingest notes/week1.md notes/week2.md

  # Index into qdrant
  VECTOR_STORE=qdrant examgen ingest syllabus.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	ingester := vectorstore.NewIngester(c.store, c.cfg.Ingest.ChunkSize, c.cfg.Ingest.ChunkOverlap, c.zap)

	total := 0
	for _, path := range args {
		n, err := ingester.IngestFile(ctx, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chunks\n", path, n)
		total += n
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ingested %d chunks from %d files\n", total, len(args))
	return nil
}
