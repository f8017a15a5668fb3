/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/retriever-be/config"
)

// indexDocumentCmd represents the indexDocument command
var indexDocumentCmd = &cobra.Command{
	Use:   "index-document",
	Short: "Index a single document for similarity search",
	Long:  `Retrieves a document by id from the configured sources and indexes it in the vector store`,
	Run: func(cmd *cobra.Command, args []string) {
		id, _ := cmd.Flags().GetString("id")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if id == "" {
			log.Fatal("--id is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		retriever, vectorIndex, err := buildRetriever(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to build retriever: %v", err)
		}
		if reinit {
			if err := vectorIndex.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize vector index: %v", err)
			}
		}

		doc := retriever.RetrieveDocument(ctx, id, false)
		if doc == nil {
			log.Fatalf("Document %s not found in any source", id)
		}
		if !retriever.AddDocumentToIndex(ctx, doc) {
			log.Fatalf("Failed to index document %s", id)
		}
		fmt.Printf("Indexed document %s (%d chunks)\n", id, len(doc.Chunks))
	},
}

func init() {
	rootCmd.AddCommand(indexDocumentCmd)

	indexDocumentCmd.Flags().String("id", "", "document id to index")
	indexDocumentCmd.Flags().Bool("reinit", false, "drop and recreate the vector index schema first")
}
