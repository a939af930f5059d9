/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/pdf-rag-be/config"
	"github.com/tieubaoca/pdf-rag-be/service"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdf-rag-be",
	Short: "PDF ingestion and vector retrieval backend",
	Long: `Ingests PDF documents, splits their text into overlapping semantic
chunks, embeds each chunk and stores the vectors in Weaviate for
nearest-neighbor retrieval by free-text query.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}

// newEmbedder builds the configured embedder with the index dimension so
// dimension mismatches surface before anything is upserted.
func newEmbedder(ctx context.Context, cfg *config.Config) (service.Embedder, error) {
	dimension := cfg.WeaviateStoreConfig.Dimension
	switch cfg.Embedder.Provider {
	case "gemini":
		return service.NewGeminiEmbedder(ctx, cfg.Embedder.GeminiAPIKey, cfg.Embedder.Model, dimension)
	default:
		return service.NewOpenAIEmbedder(cfg.Embedder.BaseURL, cfg.Embedder.OpenAIAPIKey, cfg.Embedder.Model, dimension), nil
	}
}
