package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"supportbot/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Inspect retrieval results for a query",
	Long: `Embed a query and show the nearest knowledge-base documents with
their relevance scores, without calling the generation model.

Examples:
  supportbot query -q "How do I reset my password?"
  supportbot query -q "refund status" --top-k 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := openStore(cfg, GetRootDir(), embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	count, err := st.Count()
	if err != nil {
		return fmt.Errorf("vector store unreachable: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("knowledge base is empty. Run 'supportbot index' first")
	}

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	retriever := usecase.NewRetriever(embedder, st, nil, cfg.Retrieve.SnippetChars, nil)
	passages := retriever.Retrieve(context.Background(), queryText, topK)

	if queryJSON {
		output, _ := json.MarshalIndent(passages, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(passages) == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(passages), queryText)
	for _, p := range passages {
		fmt.Printf("Rank %d: %s (relevance %.2f%%, distance %.4f)\n", p.Rank, p.Source, p.Relevance, p.Distance)
		fmt.Printf("  %s\n\n", p.Snippet)
	}

	return nil
}
