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
)

// initIndexCmd represents the init-index command
var initIndexCmd = &cobra.Command{
	Use:   "init-index",
	Short: "Create the vector index if it does not exist",
	Long: `Ensures the configured Weaviate class exists with the configured
dimension and similarity metric. With --reinit the class is dropped and
recreated, discarding all stored vectors.`,
	Run: func(cmd *cobra.Command, args []string) {
		reinit, _ := cmd.Flags().GetBool("reinit")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		fmt.Printf("Creating index: %s\n", cfg.WeaviateStoreConfig.IndexName)
		if reinit {
			err = weaviateDb.ReInit(context.Background())
		} else {
			err = weaviateDb.EnsureIndex(context.Background())
		}
		if err != nil {
			log.Fatalf("Failed to create index: %v", err)
		}
		fmt.Println("Index creation completed")
	},
}

func init() {
	rootCmd.AddCommand(initIndexCmd)
	initIndexCmd.Flags().BoolP("reinit", "r", false, "Drop and recreate the index")
}
