// Copyright 2026 Doctrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/extraction"
	"github.com/doctrail/doctrail/insight"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/resummarize"
	"github.com/doctrail/doctrail/storage"
	"github.com/doctrail/doctrail/tabular"
)

func main() {
	// Optional .env next to the binary; real env always wins.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "doctrail",
		Usage: "Ingestion and enrichment pipeline for tabular and scanned documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				EnvVars: []string{"DOCTRAIL_DB"},
				Value:   "doctrail-db",
			},
			&cli.StringFlag{
				Name:    "artifact-dir",
				Usage:   "Directory for the filesystem artifact store",
				EnvVars: []string{"DOCTRAIL_ARTIFACT_DIR"},
			},
			&cli.StringFlag{
				Name:    "insight-host",
				Usage:   "Insight generation service host URL",
				EnvVars: []string{"DOCTRAIL_INSIGHT_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "insight-model",
				Usage:   "Insight generation model name",
				EnvVars: []string{"DOCTRAIL_INSIGHT_MODEL"},
				Value:   "qwen2.5:3b",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Validate and ingest a CSV file",
				ArgsUsage: "FILE",
				Action:    uploadCommand,
				Flags: []cli.Flag{
					identityFlag(),
					&cli.StringFlag{
						Name:  "param-a",
						Usage: "First free-form context parameter for summarization",
					},
					&cli.StringFlag{
						Name:  "param-b",
						Usage: "Second free-form context parameter for summarization",
					},
					&cli.StringSliceFlag{
						Name:  "required",
						Usage: "Column that must be non-empty in every row (repeatable)",
					},
				},
			},
			{
				Name:      "analyze",
				Usage:     "Extract, classify and enrich a scanned document",
				ArgsUsage: "FILE",
				Action:    analyzeCommand,
				Flags:     []cli.Flag{identityFlag()},
			},
			{
				Name:      "ingest-dir",
				Usage:     "Ingest every supported file in a directory concurrently",
				ArgsUsage: "DIR",
				Action:    ingestDirCommand,
				Flags: []cli.Flag{
					identityFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent ingestion workers",
						Value: 4,
					},
				},
			},
			{
				Name:   "resummarize",
				Usage:  "Regenerate summaries for records persisted while the insight service was down",
				Action: resummarizeCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Attempts per generator call before giving up",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff between attempts",
						Value: time.Second,
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List pipeline invocation events, newest first",
				Action: historyCommand,
				Flags:  filterFlags(),
			},
			{
				Name:   "export",
				Usage:  "Export invocation events as an XLSX workbook",
				Action: exportCommand,
				Flags: append(filterFlags(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output file path",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func identityFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "identity",
		Aliases:  []string{"i"},
		Usage:    "Identity recorded for the submission",
		EnvVars:  []string{"DOCTRAIL_IDENTITY"},
		Required: true,
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "type",
			Usage: "Filter by event type (csv_upload, document_analysis)",
		},
		&cli.StringFlag{
			Name:  "identity",
			Usage: "Filter by identity (exact match)",
		},
		&cli.TimestampFlag{
			Name:   "from",
			Usage:  "Inclusive lower bound, RFC 3339",
			Layout: time.RFC3339,
		},
		&cli.TimestampFlag{
			Name:   "to",
			Usage:  "Exclusive upper bound, RFC 3339",
			Layout: time.RFC3339,
		},
	}
}

func openDatabase(c *cli.Context) (*doctrail.Database, error) {
	opts := []doctrail.DatabaseOption{
		doctrail.WithInsightConfig(insight.NewConfig(
			insight.WithHost(c.String("insight-host")),
			insight.WithModel(c.String("insight-model")),
		)),
	}
	if dir := c.String("artifact-dir"); dir != "" {
		opts = append(opts, doctrail.WithArtifactDir(dir))
	}
	db, err := doctrail.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func uploadCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	path := c.Args().First()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var pipeOpts []pipeline.Option
	if required := c.StringSlice("required"); len(required) > 0 {
		pipeOpts = append(pipeOpts, pipeline.WithValidator(
			tabular.NewValidator(tabular.WithRequiredColumns(required...)),
		))
	}

	p, err := db.NewPipeline(pipeOpts...)
	if err != nil {
		return err
	}

	result, err := p.SubmitTabular(context.Background(), pipeline.TabularSubmission{
		Filename: filepath.Base(path),
		Content:  content,
		Identity: c.String("identity"),
		ParamA:   c.String("param-a"),
		ParamB:   c.String("param-b"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("file %d persisted: %d rows, outcome %s\n",
		result.File.Id, len(result.Rows), result.File.Outcome)
	fmt.Printf("summary: %s\n", result.File.Summary)
	return nil
}

func analyzeCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	path := c.Args().First()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := db.NewPipeline()
	if err != nil {
		return err
	}

	result, err := p.SubmitDocument(context.Background(), pipeline.DocumentSubmission{
		Filename: filepath.Base(path),
		Content:  content,
		Identity: c.String("identity"),
	})
	if err != nil {
		return err
	}

	doc := result.Document
	fmt.Printf("document %d persisted: %s, sentiment %s (%.2f)\n",
		doc.Id, doc.Classification, doc.Sentiment, doc.SentimentScore)
	if result.Detail != "" {
		fmt.Printf("extraction degraded: %s\n", result.Detail)
	}
	fmt.Printf("summary: %s\n", doc.Summary)
	for _, field := range doc.Fields {
		fmt.Printf("  %s: %s\n", field.Name, field.Value)
	}
	return nil
}

func ingestDirCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one DIR argument")
	}
	dir := c.Args().First()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := db.NewPipeline()
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(c.Int("workers"))
	if err != nil {
		return err
	}
	defer pool.Release()

	identity := c.String("identity")
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	processed, failed, skipped := 0, 0, 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		isCSV := strings.EqualFold(filepath.Ext(name), ".csv")
		if !isCSV && extraction.MediaTypeFromFilename(name) == "" {
			skipped++
			continue
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			content, err := os.ReadFile(filepath.Join(dir, name))
			if err == nil {
				if isCSV {
					_, err = p.SubmitTabular(ctx, pipeline.TabularSubmission{
						Filename: name, Content: content, Identity: identity,
					})
				} else {
					_, err = p.SubmitDocument(ctx, pipeline.DocumentSubmission{
						Filename: name, Content: content, Identity: identity,
					})
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				slog.Error("ingestion failed", "file", name, "err", err)
				return
			}
			processed++
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	fmt.Printf("processed %d, failed %d, skipped %d\n", processed, failed, skipped)
	return nil
}

func resummarizeCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg := resummarize.DefaultConfig()
	cfg.MaxRetries = c.Int("max-retries")
	cfg.RetryDelay = c.Duration("retry-delay")

	files, err := resummarize.NewFileResummarizer(db.FileRepository(), db.Generator(), cfg, os.Stderr).
		Run(context.Background())
	if err != nil {
		return err
	}

	docs, err := resummarize.NewDocumentResummarizer(db.DocumentRepository(), db.Generator(), cfg, os.Stderr).
		Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("updated %d file records and %d document records\n", files, docs)
	return nil
}

func buildFilter(c *cli.Context) (storage.EventFilter, error) {
	var filter storage.EventFilter

	switch c.String("type") {
	case "":
	case core.EventTypeCSVUpload.String():
		typ := core.EventTypeCSVUpload
		filter.Type = &typ
	case core.EventTypeDocumentAnalysis.String():
		typ := core.EventTypeDocumentAnalysis
		filter.Type = &typ
	default:
		return filter, fmt.Errorf("invalid event type %q", c.String("type"))
	}

	filter.Identity = c.String("identity")
	if ts := c.Timestamp("from"); ts != nil {
		filter.From = *ts
	}
	if ts := c.Timestamp("to"); ts != nil {
		filter.To = *ts
	}
	return filter, nil
}

func historyCommand(c *cli.Context) error {
	filter, err := buildFilter(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := db.NewHistoryService().Query(context.Background(), filter)
	if err != nil {
		return err
	}

	for _, event := range events {
		fmt.Printf("%s  %-17s  %-10s  %-8s  %s\n",
			event.Timestamp.UTC().Format(time.RFC3339),
			event.Type, event.Identity, event.Outcome, event.Detail)
	}
	fmt.Fprintf(os.Stderr, "%d events\n", len(events))
	return nil
}

func exportCommand(c *cli.Context) error {
	filter, err := buildFilter(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := db.NewHistoryService().ExportXLSX(context.Background(), filter)
	if err != nil {
		return err
	}

	out := c.String("out")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
