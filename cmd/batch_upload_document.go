/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/pdf-rag-be/service"
	"github.com/tieubaoca/pdf-rag-be/types"
)

// batchUploadDocumentCmd represents the batch-upload-document command
var batchUploadDocumentCmd = &cobra.Command{
	Use:   "batch-upload-document",
	Short: "Ingest every PDF in a directory",
	Long: `Walks a directory and ingests every PDF in it. Documents without
usable text are skipped with a warning; other failures abort the run.`,
	Run: func(cmd *cobra.Command, args []string) {
		directory, _ := cmd.Flags().GetString("directory")
		tags, _ := cmd.Flags().GetStringArray("tags")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if directory == "" {
			log.Fatal("--directory is required")
		}

		ctx := context.Background()
		ingestService, weaviateDb := buildIngestPipeline(ctx)
		if reinit {
			if err := weaviateDb.ReInit(ctx); err != nil {
				log.Fatalf("Failed to reinitialize index: %v", err)
			}
		}

		files, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("Failed to read directory: %v", err)
		}
		for _, file := range files {
			if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".pdf") {
				continue
			}
			filePath := filepath.Join(directory, file.Name())
			record, err := ingestFileWithProgress(ctx, ingestService, filePath, types.UploadRequest{Tags: tags})
			if err != nil {
				if errors.Is(err, service.ErrNoUsableText) || errors.Is(err, service.ErrEmptyChunkSet) {
					log.Printf("Skipping %s: %v", filePath, err)
					continue
				}
				log.Fatalf("Failed to upload document %s: %v", filePath, err)
			}
			fmt.Printf("Uploaded %s (%d chunks)\n", record.Source, record.TotalChunks)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchUploadDocumentCmd)

	batchUploadDocumentCmd.Flags().StringP("directory", "d", "", "Path to the dir to upload")
	batchUploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the index before uploading")
	batchUploadDocumentCmd.Flags().StringArrayP("tags", "g", []string{}, "Tags for the documents")
}
