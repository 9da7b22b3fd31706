package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"betleague/internal/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Tables come from the models so the tool stays in sync with the schema.
var exportTables = models.MigrationTables()

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to database successfully")

	outDir := fmt.Sprintf("export_%s", time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("Failed to create export directory: %v", err)
	}

	for _, table := range exportTables {
		rows, err := dumpTable(db, table)
		if err != nil {
			log.Fatalf("Failed to dump table %s: %v", table, err)
		}

		path := filepath.Join(outDir, table+".json")
		if err := writeJSON(path, rows); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Exported %d rows from %s", len(rows), table)
	}

	log.Printf("✅ Export completed: %s", outDir)
}

func dumpTable(db *sql.DB, table string) ([]map[string]interface{}, error) {
	rows, err := db.Query("SELECT * FROM " + table + " ORDER BY 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
