// Package main provides a CLI command for offline book recommendations.
// Usage: bookrec-recommend "title" [--top N] [--csv path] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bookrec/internal/config"
	"bookrec/internal/infra/adapter/persistence/csvstore"
	"bookrec/internal/infra/textenc"
	"bookrec/internal/observability/logging"
	"bookrec/internal/recommend/index"
	"bookrec/internal/recommend/vectorizer"
	recUC "bookrec/internal/usecase/recommend"
)

// RecommendOutput represents the JSON output format for a recommendation run.
type RecommendOutput struct {
	Query       string       `json:"query"`
	CorpusSize  int          `json:"corpus_size"`
	ResultCount int          `json:"result_count"`
	Books       []BookOutput `json:"books"`
}

// BookOutput represents a single recommended book.
type BookOutput struct {
	BookID     int64   `json:"book_id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Rating     float64 `json:"rating"`
	Cover      string  `json:"cover,omitempty"`
}

func main() {
	var (
		topN         int
		csvPath      string
		outputFormat string
	)

	flag.IntVar(&topN, "top", 0, "Maximum number of recommendations to return (default: engine config)")
	flag.StringVar(&csvPath, "csv", "", "Corpus CSV path (default: engine config)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: Book title is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: bookrec-recommend \"title\" [--top N] [--csv path] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  bookrec-recommend \"The Great Gatsby\"")
		fmt.Fprintln(os.Stderr, "  bookrec-recommend \"dune\" --top 5")
		fmt.Fprintln(os.Stderr, "  bookrec-recommend \"time travel adventure\" --csv data/books.csv --output json")
		os.Exit(1)
	}
	query := args[0]

	logger := initLogger()

	engineCfg, err := config.LoadEngineConfig(engineConfigPath())
	if err != nil {
		logger.Error("failed to load engine configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load engine configuration: %v\n", err)
		os.Exit(1)
	}
	if csvPath == "" {
		csvPath = engineCfg.Corpus.Path
	}

	const maxTop = 50
	if topN <= 0 {
		topN = engineCfg.Matching.TopN
	}
	if topN <= 0 {
		topN = recUC.DefaultTopN
	}
	if topN > maxTop {
		fmt.Fprintf(os.Stderr, "Warning: top %d exceeds maximum %d, using %d\n", topN, maxTop, maxTop)
		topN = maxTop
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	source := csvstore.NewBookStore(csvPath,
		csvstore.WithMaxRows(engineCfg.Corpus.MaxRows),
		csvstore.WithTextRepair(textenc.Repair),
	)
	books, err := source.LoadAll(ctx)
	if err != nil {
		logger.Error("failed to load corpus", slog.Any("error", err), slog.String("path", csvPath))
		fmt.Fprintf(os.Stderr, "Error: Failed to load corpus from %s: %v\n", csvPath, err)
		os.Exit(1)
	}

	idx, err := index.Build(books, indexConfig(engineCfg))
	if err != nil {
		logger.Error("failed to build index", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to build index: %v\n", err)
		os.Exit(1)
	}
	holder := index.NewHolder()
	holder.Publish(idx)

	svc := recUC.NewService(holder, engineCfg.Matching.SimilarityThreshold,
		recUC.WithDefaultTopN(engineCfg.Matching.TopN))
	recs, err := svc.Recommend(ctx, query, topN)
	if err != nil {
		logger.Error("recommendation failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Recommendation failed: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		outputJSON(query, len(books), recs)
	} else {
		outputText(query, len(books), recs)
	}
}

func engineConfigPath() string {
	if path := os.Getenv("ENGINE_CONFIG_PATH"); path != "" {
		return path
	}
	return "configs/engine.yaml"
}

func indexConfig(cfg *config.EngineConfig) index.Config {
	return index.Config{
		Vectorizer: vectorizer.Config{
			MaxFeatures:     cfg.Vectorizer.MaxFeatures,
			UseBigrams:      cfg.Vectorizer.UseBigrams,
			MinDocFreq:      cfg.Vectorizer.MinDocFreq,
			MaxDocFreqRatio: cfg.Vectorizer.MaxDocFreqRatio,
			FilterStopWords: cfg.Vectorizer.FilterStopWords,
		},
		WithRatingFeature: cfg.Matching.WithRatingFeature,
		FuzzyThreshold:    cfg.Matching.FuzzyThreshold,
	}
}

// outputText prints recommendations in human-readable format.
func outputText(query string, corpusSize int, recs []recUC.Recommendation) {
	fmt.Printf("Recommendations for: %q\n", query)
	fmt.Printf("Corpus: %d books\n", corpusSize)
	fmt.Printf("Results: %d\n\n", len(recs))

	if len(recs) == 0 {
		fmt.Println("No similar books found.")
		return
	}

	for i, rec := range recs {
		fmt.Printf("%d. %s\n", i+1, rec.Title)
		fmt.Printf("   Similarity: %.2f%%\n", rec.Similarity)
		if rec.Rating > 0 {
			fmt.Printf("   Rating: %.2f\n", rec.Rating)
		}
		fmt.Println()
	}
}

// outputJSON prints recommendations in JSON format.
func outputJSON(query string, corpusSize int, recs []recUC.Recommendation) {
	books := make([]BookOutput, len(recs))
	for i, rec := range recs {
		books[i] = BookOutput{
			BookID:     rec.ID,
			Title:      rec.Title,
			Similarity: rec.Similarity,
			Rating:     rec.Rating,
			Cover:      rec.Cover,
		}
	}

	output := RecommendOutput{
		Query:       query,
		CorpusSize:  corpusSize,
		ResultCount: len(recs),
		Books:       books,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// initLogger keeps log output on stderr so stdout stays clean for the
// recommendation output.
func initLogger() *slog.Logger {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)
	return logger
}
