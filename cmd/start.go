/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/retriever-be/config"
	"github.com/tieubaoca/retriever-be/database"
	"github.com/tieubaoca/retriever-be/handler"
	"github.com/tieubaoca/retriever-be/middleware"
	"github.com/tieubaoca/retriever-be/repository"
	"github.com/tieubaoca/retriever-be/service"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the knowledge base API server",
	Long:  `Starts the HTTP server exposing documents, search and live websocket search`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		mongoClient, err := database.NewMongoClient(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database(cfg.MongoDatabase)

		// init repo
		documentRepo, err := repository.NewDocumentRepo(mongoDb)
		if err != nil {
			log.Fatalf("Failed to init document repository: %v", err)
		}

		// init services
		wsService := service.NewWebSocketService(documentRepo)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		documentHandler := handler.NewDocumentHandler(documentRepo)
		searchHandler := handler.NewSearchHandler(documentRepo)
		statsHandler := handler.NewStatsHandler(documentRepo)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/health", statsHandler.HandleHealth)

		// API routes - require the service API key
		api := router.Group("/")
		api.Use(middleware.AuthMiddleware(cfg.APIKey))
		{
			api.GET("/documents", documentHandler.HandleListDocuments)
			api.GET("/documents/:id", documentHandler.HandleGetDocument)
			api.POST("/documents", documentHandler.HandleCreateDocument)
			api.DELETE("/documents/:id", documentHandler.HandleDeleteDocument)
			api.GET("/search", searchHandler.HandleSearch)
			api.GET("/stats", statsHandler.HandleStats)
			api.GET("/ws/search", func(c *gin.Context) {
				wsService.HandleSearch(c.Writer, c.Request)
			})
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
