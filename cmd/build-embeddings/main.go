// Command build-embeddings embeds every dataset record's code and names and
// writes the vectors to a JSON file for offline similarity experiments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/llm"
)

type embeddingRow struct {
	Slug   string    `json:"slug"`
	Vector []float64 `json:"vector"`
}

func main() {
	dataPath := flag.String("in", "data/hscode.json", "HS dataset path")
	outputPath := flag.String("out", "data/hscode-embeddings.json", "output embeddings path")
	flag.Parse()

	client, err := llm.New()
	if err != nil {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	store, err := dataset.LoadVietnamHS(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	if store.Len() == 0 {
		log.Fatal("No HS code data found. Run cmd/process-data first.")
	}

	ctx := context.Background()
	records := store.All()
	rows := make([]embeddingRow, 0, len(records))

	for i := range records {
		rec := &records[i]
		text := strings.TrimSpace(rec.Code + " " + rec.NameEn + " " + rec.NameVi)
		vector, err := client.Embed(ctx, text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Fatalf("Failed to embed %s: %v", rec.Slug, err)
		}
		rows = append(rows, embeddingRow{Slug: rec.Slug, Vector: vector})

		if (i+1)%500 == 0 {
			log.Printf("Embedded %d/%d", i+1, len(records))
		}
	}

	data, err := json.Marshal(rows)
	if err != nil {
		log.Fatalf("Failed to encode embeddings: %v", err)
	}
	if err := os.WriteFile(*outputPath, data, 0644); err != nil {
		log.Fatalf("Failed to write embeddings: %v", err)
	}
	log.Printf("Saved embeddings to %s", *outputPath)
}
