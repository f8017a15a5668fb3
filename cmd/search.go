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

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search documents across the vector index and all sources",
	Run: func(cmd *cobra.Command, args []string) {
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		if query == "" {
			log.Fatal("--query is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		retriever, _, err := buildRetriever(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to build retriever: %v", err)
		}

		docs := retriever.SearchDocuments(ctx, query, limit, !noCache)
		if len(docs) == 0 {
			fmt.Println("No documents found")
			return
		}
		for i, doc := range docs {
			fmt.Printf("%d. %s (%s, source=%s)\n", i+1, doc.Metadata.Title, doc.Metadata.ID, doc.Metadata.Source)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "search query")
	searchCmd.Flags().IntP("limit", "l", 10, "maximum results")
	searchCmd.Flags().Bool("no-cache", false, "bypass the search result cache")
}
