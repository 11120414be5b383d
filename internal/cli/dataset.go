package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"supportbot/internal/usecase"
)

var (
	datasetOut      string
	datasetTestSize float64
	datasetSeed     int64
)

var datasetCmd = &cobra.Command{
	Use:   "dataset [dir]",
	Short: "Build intent-classification train/test CSVs from labeled JSON",
	Long: `Read complaints.json, faqs.json and troubleshooting.json from the
given directory, clean the text and write a stratified train/test split
as train.csv and test.csv.

Examples:
  supportbot dataset ./intents
  supportbot dataset ./intents --out ./data --test-size 0.3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDataset,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.Flags().StringVar(&datasetOut, "out", "", "output directory (default is config dataset.output_dir)")
	datasetCmd.Flags().Float64Var(&datasetTestSize, "test-size", 0, "test fraction (default is config dataset.test_size)")
	datasetCmd.Flags().Int64Var(&datasetSeed, "seed", 0, "shuffle seed (default is config dataset.seed)")
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dir := cfg.Dataset.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(GetRootDir(), dir)
	}

	outDir := cfg.Dataset.OutputDir
	if datasetOut != "" {
		outDir = datasetOut
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(GetRootDir(), outDir)
	}

	testSize := cfg.Dataset.TestSize
	if datasetTestSize > 0 {
		testSize = datasetTestSize
	}
	seed := cfg.Dataset.Seed
	if datasetSeed != 0 {
		seed = datasetSeed
	}

	builder := usecase.NewDatasetBuilder(testSize, seed, nil)
	train, test, err := builder.Build(dir, outDir)
	if err != nil {
		return err
	}

	fmt.Printf("Dataset written to %s\n", outDir)
	fmt.Printf("  Train samples: %d\n", train)
	fmt.Printf("  Test samples:  %d\n", test)
	return nil
}
