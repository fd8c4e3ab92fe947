package main

import (
	"time"

	"github.com/OFFIS-RIT/kiwi-ke/internal/config"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	oai "github.com/OFFIS-RIT/kiwi-ke/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/kiwi-ke/pkg/ai/openai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"
	loaderio "github.com/OFFIS-RIT/kiwi-ke/pkg/loader/io"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader/multi"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader/pdf"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger/console"
)

const aiRetryDelay = 2 * time.Second

func initLogger(cfg *config.Config) {
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
		JSON:  cfg.LogFormat == "json",
	}))
}

func newAIClient(cfg *config.Config) (ai.GraphAIClient, error) {
	var client ai.GraphAIClient

	switch cfg.AI.Adapter {
	case "ollama":
		c, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ExtractionModel:       cfg.AI.ExtractModel,
			Temperature:           cfg.AI.Temperature,
			Thinking:              cfg.AI.Thinking,
			TokenEncoder:          cfg.Documents.TokenEncoder,
			BaseURL:               cfg.AI.ChatURL,
			ApiKey:                cfg.AI.ChatKey,
			MaxConcurrentRequests: int64(cfg.AI.MaxConcurrentRequests),
		})
		if err != nil {
			return nil, err
		}
		client = c
	default:
		client = gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ExtractionModel: cfg.AI.ExtractModel,
			Temperature:     cfg.AI.Temperature,
			Thinking:        cfg.AI.Thinking,
			ChatURL:         cfg.AI.ChatURL,
			ChatKey:         cfg.AI.ChatKey,
		})
	}

	return ai.NewRetryClient(client, cfg.AI.MaxRetries, aiRetryDelay), nil
}

// newFileLoader reads PDFs through the PDF text extractor and everything
// else as plain text.
func newFileLoader() loader.GraphFileLoader {
	files := loaderio.NewIOGraphFileLoader()
	return multi.NewExtensionGraphLoader(map[string]loader.GraphFileLoader{
		".pdf": pdf.NewPDFGraphLoader(files),
		".txt": files,
		".md":  files,
	})
}
