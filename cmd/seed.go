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
	"github.com/tieubaoca/retriever-be/database"
	"github.com/tieubaoca/retriever-be/repository"
	"github.com/tieubaoca/retriever-be/service"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the knowledge base with generated documents",
	Long:  `Generates realistic corporate documents and stores them in MongoDB for development and demos`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		dataConfig := service.DefaultDummyDataConfig
		dataConfig.NumSalesReports, _ = cmd.Flags().GetInt("sales")
		dataConfig.NumProjectDocs, _ = cmd.Flags().GetInt("projects")
		dataConfig.NumTechnicalDocs, _ = cmd.Flags().GetInt("technical")
		dataConfig.NumHRDocs, _ = cmd.Flags().GetInt("hr")
		dataConfig.NumFinancialDocs, _ = cmd.Flags().GetInt("financial")

		mongoClient, err := database.NewMongoClient(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		documentRepo, err := repository.NewDocumentRepo(mongoClient.Database(cfg.MongoDatabase))
		if err != nil {
			log.Fatalf("Failed to init document repository: %v", err)
		}

		generator := service.NewDummyDataService(dataConfig)
		docs := generator.GenerateAll()

		inserted := 0
		for i := range docs {
			if err := documentRepo.CreateDocument(context.Background(), &docs[i]); err != nil {
				log.Printf("Failed to insert %s: %v", docs[i].Metadata.ID, err)
				continue
			}
			inserted++
		}
		fmt.Printf("Seeded %d of %d documents\n", inserted, len(docs))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("sales", service.DefaultDummyDataConfig.NumSalesReports, "number of sales reports")
	seedCmd.Flags().Int("projects", service.DefaultDummyDataConfig.NumProjectDocs, "number of project documents")
	seedCmd.Flags().Int("technical", service.DefaultDummyDataConfig.NumTechnicalDocs, "number of technical documents")
	seedCmd.Flags().Int("hr", service.DefaultDummyDataConfig.NumHRDocs, "number of HR documents")
	seedCmd.Flags().Int("financial", service.DefaultDummyDataConfig.NumFinancialDocs, "number of financial documents")
}
