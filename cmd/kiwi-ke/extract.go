package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/kiwi-ke/internal/config"
	"github.com/OFFIS-RIT/kiwi-ke/internal/timing"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/ai"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/graph"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"
	storepgx "github.com/OFFIS-RIT/kiwi-ke/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var errExtractionFailed = errors.New("extraction failed")

type extractOptions struct {
	topic    string
	path     string
	out      string
	parallel int
}

func extractCmd() *cobra.Command {
	opts := extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a key event graph from a PDF or a directory of PDFs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.topic, "topic", graph.DefaultTopic, "Research topic used to focus the extraction")
	cmd.Flags().StringVar(&opts.path, "path", "", "Document or directory of documents")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write the result to this file instead of stdout")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "Documents processed at once (overrides PARALLEL_FILES)")
	return cmd
}

func runExtract(cmd *cobra.Command, opts extractOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Read(configPath)
	if err != nil {
		return err
	}
	if opts.parallel > 0 {
		cfg.ParallelFiles = opts.parallel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	initLogger(cfg)

	aiClient, err := newAIClient(cfg)
	if err != nil {
		return fmt.Errorf("could not create AI client: %w", err)
	}

	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
		AIClient:          aiClient,
		Loader:            newFileLoader(),
		Extensions:        cfg.Documents.Extensions,
		TextLimits:        cfg.TextLimits(),
		EvidenceNamespace: cfg.EvidenceNamespace,
		ParallelFiles:     cfg.ParallelFiles,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := client.Extract(ctx, opts.topic, opts.path)
	if err != nil {
		return err
	}
	logMetrics(aiClient.GetMetrics(), time.Since(start))

	if err := writeResult(cmd, res, opts.out); err != nil {
		return err
	}

	if cfg.DatabaseURL != "" {
		if err := saveResult(ctx, cfg.DatabaseURL, opts.topic, res); err != nil {
			return fmt.Errorf("could not persist result: %w", err)
		}
	}

	if res.Status == common.StatusError {
		return fmt.Errorf("%w: %s", errExtractionFailed, opts.path)
	}
	return nil
}

func writeResult(cmd *cobra.Command, res *common.ExtractionResult, out string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", out, err)
	}
	logger.Info("Result written", "file", out)
	return nil
}

func saveResult(ctx context.Context, databaseURL, topic string, res *common.ExtractionResult) error {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	storage, err := storepgx.NewGraphDBStorageWithConnection(ctx, pool)
	if err != nil {
		return err
	}
	return storage.SaveResult(ctx, topic, res)
}

func logMetrics(metrics ai.ModelMetrics, elapsed time.Duration) {
	logger.Info(
		"AI Metrics",
		"requests", metrics.Requests,
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
		"tokens_per_second", metrics.TokenPerSecond,
		"duration", timing.FormatMillis(metrics.DurationMs),
	)
	logger.Info("Processing time", "duration", timing.FormatDuration(elapsed))
}
