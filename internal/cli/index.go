package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"supportbot/internal/adapter/fs"
	"supportbot/internal/usecase"
)

var indexKeep bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Embed and store the knowledge-base corpus",
	Long: `Read every plain-text file in the knowledge directory, compute its
embedding and store it in the vector store. By default the collection is
cleared first so a re-run cannot leave stale or duplicate documents.

Examples:
  supportbot index                    # Index the configured knowledge dir
  supportbot index ./knowledge_base   # Index a specific directory
  supportbot index --keep             # Add to the existing collection`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexKeep, "keep", false, "do not clear the collection before indexing")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dir := cfg.Knowledge.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(GetRootDir(), dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("knowledge directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := openStore(cfg, GetRootDir(), embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	walker := fs.NewWalker(cfg.Knowledge.Includes, cfg.Knowledge.Excludes)
	clearFirst := cfg.Knowledge.ClearFirst && !indexKeep
	indexer := usecase.NewIndexer(embedder, st, walker, nil, clearFirst, nil)

	fmt.Printf("Indexing %s (model %s)...\n", dir, embedder.ModelName())

	var bar *progressbar.ProgressBar
	progress := func(processed, total int, currentFile string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := indexer.Index(dir, progress)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	count, _ := st.Count()

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Files indexed: %d\n", result.FilesIndexed)
	fmt.Printf("  Files skipped: %d\n", result.FilesSkipped)
	fmt.Printf("  Documents stored: %d\n", count)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	return nil
}
