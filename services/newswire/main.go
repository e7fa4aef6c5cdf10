// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/AleutianAI/newswire/services/newswire/cache"
	"github.com/AleutianAI/newswire/services/newswire/config"
	"github.com/AleutianAI/newswire/services/newswire/observability"
	"github.com/AleutianAI/newswire/services/newswire/routes"
	"github.com/AleutianAI/newswire/services/newswire/status"
	"github.com/AleutianAI/newswire/services/newswire/storage"
	"github.com/AleutianAI/newswire/services/newswire/summarize"
	"github.com/AleutianAI/newswire/services/newswire/translate"

	"github.com/prometheus/client_golang/prometheus"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "newswire-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("newswire-service")))
	if err != nil {
		return nil, err
	}
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(traceExporter)))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	repo := storage.NewRepository(db)
	if err := repo.Ensure(context.Background()); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	if cfg.APISecret == "" {
		slog.Warn("NEWSWIRE_API_SECRET is not set; bearer-authed endpoints will reject every request")
	}

	cacheStore := cache.New()
	invalidator := cache.NewInvalidator(cacheStore)
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// No API key is a degraded start, not a fatal one: the read paths
	// stay up and the summarize endpoints answer 503.
	var orchestrator *summarize.Orchestrator
	if cfg.OpenAIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; summarize endpoints are disabled")
	} else {
		summarizer, err := summarize.NewOpenAISummarizer(cfg.OpenAIKey, cfg.SummaryModel)
		if err != nil {
			log.Fatalf("failed to initialize the summarizer: %v", err)
		}
		orchestrator = summarize.NewOrchestrator(repo, summarizer, invalidator)
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("newswire-service"))

	routes.SetupRoutes(router, routes.Deps{
		APISecret:    cfg.APISecret,
		Store:        repo,
		Cache:        cacheStore,
		Invalidator:  invalidator,
		Aggregator:   status.NewAggregator(repo),
		Orchestrator: orchestrator,
		BatchSize:    cfg.DefaultBatchSize,
		Translator:   translate.NewClient(cfg.TranslateURL),
		Metrics:      metrics,
	})

	slog.Info("starting the newswire server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
