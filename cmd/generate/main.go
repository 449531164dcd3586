// Command generate runs the topic-to-graph pipeline once and writes the
// result as a zip of markdown notes, without starting the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"skillmap-backend/application/services"
	"skillmap-backend/infrastructure/config"
	"skillmap-backend/infrastructure/di"
	"skillmap-backend/infrastructure/export"
	"skillmap-backend/infrastructure/persistence/memory"
)

func main() {
	topic := flag.String("topic", "", "topic to generate a skill graph for")
	output := flag.String("out", "graph.zip", "output zip path")
	flag.Parse()

	if *topic == "" {
		fmt.Fprintln(os.Stderr, "usage: generate -topic \"go concurrency\" [-out graph.zip]")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	domainCfg := di.ProvideDomainConfig()
	metrics := di.ProvideCollector()

	pipeline := services.NewPipelineService(
		di.ProvideURLDiscoverer(cfg, logger),
		services.NewFetchService(di.ProvidePageFetcher(cfg, logger), domainCfg, metrics, logger),
		di.ProvideSynthesizer(cfg, logger),
		memory.NewGraphStore(),
		domainCfg,
		cfg.Scrape.MaxConcurrency,
		metrics,
		logger,
	)

	graph, err := pipeline.GenerateGraph(context.Background(), *topic)
	if err != nil {
		logger.Fatal("Graph generation failed", zap.Error(err))
	}

	file, err := os.Create(*output)
	if err != nil {
		logger.Fatal("Failed to create output file", zap.Error(err))
	}
	defer file.Close()

	if err := export.WriteZip(file, graph); err != nil {
		logger.Fatal("Failed to write archive", zap.Error(err))
	}

	logger.Info("Graph exported",
		zap.String("topic", *topic),
		zap.Int("nodes", graph.NodeCount()),
		zap.String("output", *output),
	)
}
