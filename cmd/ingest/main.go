package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"ai-travelplanner-be/internal/config"
	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/repository/unitofwork"
	"ai-travelplanner-be/pkg/database"
	"ai-travelplanner-be/pkg/embedding"

	"github.com/google/uuid"
)

type ingestDoc struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

func main() {
	filePath := flag.String("file", "knowledge.json", "JSON file with documents to ingest")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *filePath, err)
	}

	var docs []ingestDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *filePath, err)
	}
	if len(docs) == 0 {
		log.Fatal("Error: No documents found in input file")
	}

	embedder := embedding.NewOpenAIProvider(
		cfg.LLM.APIKey,
		cfg.LLM.APIBase,
		cfg.LLM.EmbeddingModel,
		cfg.LLM.TimeoutSeconds,
	)

	uowFactory := unitofwork.NewRepositoryFactory(db)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	log.Printf("Ingesting %d documents from %s...", len(docs), *filePath)

	inserted := 0
	for i, d := range docs {
		if d.Content == "" {
			log.Printf("Warn: Skipping document %d, empty content", i)
			continue
		}

		vector, err := embedder.Embed(ctx, d.Content)
		if err != nil {
			log.Fatalf("Error: Failed to embed document %d (%s): %v", i, d.Title, err)
		}

		doc := &entity.KnowledgeDoc{
			Id:        uuid.New(),
			Title:     d.Title,
			Source:    d.Source,
			Content:   d.Content,
			Embedding: vector,
			CreatedAt: time.Now(),
		}
		if err := uow.KnowledgeDocRepository().Create(ctx, doc); err != nil {
			log.Fatalf("Error: Failed to insert document %d (%s): %v", i, d.Title, err)
		}
		inserted++
	}

	total, err := uow.KnowledgeDocRepository().Count(ctx)
	if err != nil {
		log.Printf("Warn: Failed to count knowledge docs: %v", err)
	}

	log.Printf("Done. Inserted %d documents, knowledge base now holds %d.", inserted, total)
}
