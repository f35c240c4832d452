package main

import (
	"log"

	"code-concierge-be/internal/config"
	"code-concierge-be/internal/model"
	"code-concierge-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(database.GormConfig{
		Type: cfg.Database.Type,
		DSN:  cfg.Database.Connection,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Running AutoMigrate on %s...", cfg.Database.Type)
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Substring search is LOWER(col) LIKE '%term%'; trigram indexes keep it off a full scan on postgres.
	if cfg.Database.Type == "postgres" || cfg.Database.Type == "postgresql" {
		postMigrationSQL := []string{
			`CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
			`CREATE INDEX IF NOT EXISTS idx_pdf_files_content_trgm ON pdf_files USING gin (LOWER(content_text) gin_trgm_ops);`,
			`CREATE INDEX IF NOT EXISTS idx_pdf_files_filename_trgm ON pdf_files USING gin (LOWER(filename) gin_trgm_ops);`,
			`CREATE INDEX IF NOT EXISTS idx_excel_mappings_term_trgm ON excel_mappings USING gin (LOWER(query_term) gin_trgm_ops);`,
		}
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("✅ Success: Database migration completed")
}
