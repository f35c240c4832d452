// Command kbimport loads knowledge files from disk without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"code-concierge-be/internal/config"
	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/model"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/pkg/storage"
	"code-concierge-be/internal/repository/memory"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/internal/service"
	"code-concierge-be/pkg/database"
	"code-concierge-be/pkg/events"
	"code-concierge-be/pkg/extract"
	pktNats "code-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
)

func main() {
	workbooks := flag.String("workbooks", "", "comma separated .xlsx files or globs")
	archives := flag.String("archives", "", "comma separated .zip files or globs")
	pdfs := flag.String("pdfs", "", "comma separated .pdf files or globs")
	urls := flag.String("urls", "", "comma separated page URLs to scrape")
	mode := flag.String("mode", "", "replace or append; workbooks default to replace, archives to append")
	clearTable := flag.String("clear", "", "table to empty before importing")
	flag.Parse()

	cfg := config.Load()
	db, err := database.NewGormDB(database.GormConfig{Type: cfg.Database.Type, DSN: cfg.Database.Connection})
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		color.Red("AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	files, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		color.Red("Failed to open upload dir: %v", err)
		os.Exit(1)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// nobody subscribes here; progress is printed from the batch results instead
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	knowledge := service.NewKnowledgeService(
		unitofwork.NewRepositoryFactory(db),
		files,
		extract.NewScraper(cfg.Scraper.Timeout, cfg.Scraper.UserAgent),
		service.NewPublisherService(events.KnowledgeTopic, pubSub),
		memory.NewStatsCache(cfg.Retrieval.StatsCacheTTL),
		sysLogger,
	)

	ctx := context.Background()
	failed := false

	if *clearTable != "" {
		res, err := knowledge.ClearTable(ctx, *clearTable)
		if err != nil {
			color.Red("Clear failed: %v", err)
			os.Exit(1)
		}
		color.Yellow("Cleared %s (%d rows)", res.Table, res.Deleted)
	}

	run := func(label string, res *dto.BatchResult, err error) {
		if err != nil {
			color.Red("[%s] %v", label, err)
			failed = true
			return
		}
		color.Cyan("[%s] %d succeeded, %d failed", label, res.Succeeded, res.Failed)
		for _, item := range res.Items {
			if item.Status == dto.ItemStatusFailed {
				color.Red("  ✗ %s: %s", item.Name, item.Error)
				failed = true
				continue
			}
			color.Green("  ✓ %s (%d rows)", item.Name, item.Rows)
		}
	}

	if *workbooks != "" {
		res, err := knowledge.ImportWorkbooks(ctx, readFiles(*workbooks), *mode)
		run("workbooks", res, err)
	}
	if *archives != "" {
		res, err := knowledge.ImportArchives(ctx, readFiles(*archives), *mode)
		run("archives", res, err)
	}
	if *pdfs != "" {
		res, err := knowledge.ImportPdfs(ctx, readFiles(*pdfs))
		run("pdfs", res, err)
	}
	if *urls != "" {
		res, err := knowledge.ScrapeUrls(ctx, splitList(*urls))
		run("urls", res, err)
	}

	stats, err := knowledge.GetStats(ctx)
	if err == nil {
		color.Yellow("Knowledge base: %d matrix rows, %d mappings, %d documents", stats.CodeMatrix, stats.ExcelMappings, stats.PdfFiles)
	}
	notifyServers(ctx, cfg, sysLogger)
	if failed {
		os.Exit(1)
	}
}

// notifyServers tells running servers to drop their cached table counts.
func notifyServers(ctx context.Context, cfg *config.Config, log logger.ILogger) {
	if cfg.App.NatsURL == "" {
		color.Yellow("NATS_URL not set; running servers may report stale counts for up to %s", cfg.Retrieval.StatsCacheTTL)
		return
	}
	pub, err := pktNats.NewPublisher(cfg.App.NatsURL, log)
	if err != nil {
		color.Yellow("Could not reach NATS (%v); running servers may report stale counts for up to %s", err, cfg.Retrieval.StatsCacheTTL)
		return
	}
	defer pub.Close()

	event := events.NewKnowledgeEvent(events.KnowledgeImportCompleted, map[string]interface{}{"source": "kbimport"})
	if err := pub.Publish(ctx, event); err != nil {
		color.Yellow("Failed to notify servers: %v", err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readFiles expands globs and loads each match. Unreadable paths are reported and skipped.
func readFiles(raw string) []service.UploadedFile {
	var files []service.UploadedFile
	for _, pattern := range splitList(raw) {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				color.Red("  cannot read %s: %v", path, err)
				continue
			}
			files = append(files, service.UploadedFile{Name: filepath.Base(path), Data: data})
		}
	}
	return files
}
