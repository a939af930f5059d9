/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/pdf-rag-be/config"
	"github.com/tieubaoca/pdf-rag-be/database"
	"github.com/tieubaoca/pdf-rag-be/handler"
	"github.com/tieubaoca/pdf-rag-be/middleware"
	"github.com/tieubaoca/pdf-rag-be/repository"
	"github.com/tieubaoca/pdf-rag-be/service"
	"github.com/tieubaoca/pdf-rag-be/types"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingest and query server",
	Long:  `Starts the HTTP server exposing the document ingest and vector query endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// Initialize services
		chunkService := service.NewChunkService(types.DocumentServiceConfig{
			MaxTokens:      cfg.Chunking.MaxTokens,
			OverlapEnabled: cfg.Chunking.OverlapEnabled,
		})
		extractor := service.NewPopplerExtractor()

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

		mongoClient, err := database.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := mongoClient.Ping(ctx, nil); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		docRepo, err := repository.NewDocumentRepo(mongoClient.Database("pdfrag"))
		if err != nil {
			log.Fatalf("Failed to init document repository: %v", err)
		}

		ingestService, err := service.NewIngestService(extractor, chunkService, embedder, weaviateDb, docRepo, cfg.Language)
		if err != nil {
			log.Fatalf("Failed to create ingest service: %v", err)
		}
		queryService, err := service.NewQueryService(embedder, weaviateDb)
		if err != nil {
			log.Fatalf("Failed to create query service: %v", err)
		}
		wsService := service.NewWebSocketService(queryService)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		queryHandler := handler.NewQueryHandler(queryService)
		uploadHandler := handler.NewUploadHandler(ingestService, cfg.UploadDir)
		documentHandler := handler.NewDocumentHandler(cfg.UploadDir, docRepo)
		loginHandler := handler.NewLoginHandler(cfg.AdminUsername, cfg.AdminPassword)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/login", loginHandler.HandleLogin)
		apiV1.POST("/query", queryHandler.HandleQuery)
		apiV1.GET("/documents", documentHandler.ListDocuments)
		apiV1.GET("/pdf", documentHandler.ServeDocument)
		apiV1.GET("/ws", func(c *gin.Context) {
			wsService.HandleQuerySession(c.Writer, c.Request)
		})

		// Admin routes - require admin authentication
		adminRoutes := router.Group("/admin/api/v1")
		adminRoutes.Use(middleware.AdminAuthMiddleware)
		{
			adminRoutes.POST("/upload", uploadHandler.UploadDocumentHandler)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
