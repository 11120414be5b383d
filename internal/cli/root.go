package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"supportbot/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "supportbot",
	Short: "AI customer-support query handler with RAG retrieval",
	Long: `supportbot classifies incoming support queries, retrieves relevant
knowledge-base passages by embedding similarity, and asks a hosted chat
model for an answer grounded in that context.

Example usage:
  supportbot index ./knowledge_base     # Embed and store the corpus
  supportbot query -q "reset password"  # Inspect retrieval results
  supportbot ask -q "reset password"    # Full RAG answer
  supportbot serve                      # HTTP API on :8080`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// API keys live in .env during development.
		_ = godotenv.Load()

		var err error
		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		slog.SetDefault(newLogger(cfg))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./supportbot.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
