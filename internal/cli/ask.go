package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"supportbot/internal/domain"
)

var askText string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a support query with the full RAG pipeline",
	Long: `Run the complete pipeline for a query: intent classification,
sentiment analysis, retrieval and grounded answer generation.

With -q, answers a single query and exits. Without it, starts an
interactive session.

Examples:
  supportbot ask -q "How do I reset my password?"
  supportbot ask`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askText, "query", "q", "", "query text (omit for interactive mode)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, closeStore, err := newService(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()

	if err := svc.Health(ctx); err != nil {
		return fmt.Errorf("not ready: %w", err)
	}

	if askText != "" {
		printResult(svc.HandleQuery(ctx, askText))
		return nil
	}

	fmt.Println("=== Customer Support RAG System ===")
	fmt.Println("Type 'exit' to quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Customer query: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") {
			break
		}

		printResult(svc.HandleQuery(ctx, query))
		fmt.Println(strings.Repeat("=", 50))
	}

	return scanner.Err()
}

func printResult(result domain.QueryResult) {
	fmt.Println()
	fmt.Printf("Intent: %s\n", result.Intent)
	fmt.Printf("Sentiment: %s emotion, %s urgency, satisfaction %d/10\n",
		result.Sentiment.Emotion, result.Sentiment.Urgency, result.Sentiment.Satisfaction)

	if len(result.Context) > 0 {
		fmt.Println("Sources:")
		for _, p := range result.Context {
			fmt.Printf("  %d. %s (%.2f%%)\n", p.Rank, p.Source, p.Relevance)
		}
	}

	fmt.Println()
	fmt.Printf("Response: %s\n", result.Response)
	fmt.Println()
}
