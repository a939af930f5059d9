/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/pdf-rag-be/config"
	"github.com/tieubaoca/pdf-rag-be/database"
	"github.com/tieubaoca/pdf-rag-be/service"
	"github.com/tieubaoca/pdf-rag-be/types"
)

// uploadDocumentCmd represents the upload-document command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Ingest a single PDF into the vector index",
	Long: `Extracts the text of one PDF, chunks it, embeds every chunk and
upserts the vectors into the configured Weaviate index.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		source, _ := cmd.Flags().GetString("source")
		tags, _ := cmd.Flags().GetStringArray("tags")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		ctx := context.Background()
		ingestService, weaviateDb := buildIngestPipeline(ctx)
		if reinit {
			if err := weaviateDb.ReInit(ctx); err != nil {
				log.Fatalf("Failed to reinitialize index: %v", err)
			}
		}

		record, err := ingestFileWithProgress(ctx, ingestService, filePath, types.UploadRequest{
			Source: source,
			Tags:   tags,
		})
		if err != nil {
			log.Fatalf("Failed to upload document %s: %v", filePath, err)
		}
		fmt.Printf("Uploaded %s (%d chunks)\n", record.Source, record.TotalChunks)
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)

	uploadDocumentCmd.Flags().StringP("file", "f", "", "Path to the file to upload")
	uploadDocumentCmd.Flags().StringP("source", "s", "", "Source identifier stored with each chunk (defaults to the file path)")
	uploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the index before uploading")
	uploadDocumentCmd.Flags().StringArrayP("tags", "g", []string{}, "Tags for the document")
}

// buildIngestPipeline wires the CLI ingest flow from config. No registry:
// one-shot uploads do not need Mongo.
func buildIngestPipeline(ctx context.Context) (*service.IngestService, *database.WeaviateStore) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	chunkService := service.NewChunkService(types.DocumentServiceConfig{
		MaxTokens:      cfg.Chunking.MaxTokens,
		OverlapEnabled: cfg.Chunking.OverlapEnabled,
	})
	weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
	if err != nil {
		log.Fatalf("Failed to connect to Weaviate database: %v", err)
	}
	if err := weaviateDb.EnsureIndex(ctx); err != nil {
		log.Fatalf("Failed to ensure index: %v", err)
	}
	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	ingestService, err := service.NewIngestService(service.NewPopplerExtractor(), chunkService, embedder, weaviateDb, nil, cfg.Language)
	if err != nil {
		log.Fatalf("Failed to create ingest service: %v", err)
	}
	return ingestService, weaviateDb
}

func ingestFileWithProgress(ctx context.Context, ingestService *service.IngestService, filePath string, req types.UploadRequest) (*types.IngestRecord, error) {
	statusChan := make(chan types.ProcessingDocumentStatus)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for status := range statusChan {
			fmt.Printf("%s: %d/%d chunks\n", status.Status, status.ProcessedChunks, status.TotalChunks)
		}
	}()
	record, err := ingestService.IngestFile(ctx, filePath, req, statusChan)
	close(statusChan)
	<-done
	return record, err
}
