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

// batchIndexCmd represents the batchIndex command
var batchIndexCmd = &cobra.Command{
	Use:   "batch-index",
	Short: "Index every document the sources know about",
	Long:  `Lists documents from all configured sources and indexes each one in the vector store`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		reinit, _ := cmd.Flags().GetBool("reinit")

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

		metadatas := retriever.ListAllDocuments(ctx, limit)
		log.Printf("Found %d documents to index", len(metadatas))

		indexed := 0
		for _, metadata := range metadatas {
			doc := retriever.RetrieveDocument(ctx, metadata.ID, false)
			if doc == nil {
				log.Printf("Skipping %s, no longer retrievable", metadata.ID)
				continue
			}
			if !retriever.AddDocumentToIndex(ctx, doc) {
				log.Printf("Skipping %s, indexing failed", metadata.ID)
				continue
			}
			indexed++
		}
		fmt.Printf("Indexed %d of %d documents\n", indexed, len(metadatas))
	},
}

func init() {
	rootCmd.AddCommand(batchIndexCmd)

	batchIndexCmd.Flags().Int("limit", 1000, "maximum documents to list per source")
	batchIndexCmd.Flags().Bool("reinit", false, "drop and recreate the vector index schema first")
}
