package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"betleague/internal/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Import order mirrors the extraction order so foreign keys resolve.
var importTables = models.MigrationTables()

type rowError struct {
	Table string                 `json:"table"`
	Row   map[string]interface{} `json:"row"`
	Error string                 `json:"error"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate-import <export-dir>")
		os.Exit(1)
	}
	exportDir := os.Args[1]

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

	var failures []rowError
	imported := 0

	for _, table := range importTables {
		path := filepath.Join(exportDir, table+".json")
		rows, err := loadRows(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Printf("Skipping %s (no export file)", table)
				continue
			}
			log.Fatalf("Failed to load %s: %v", path, err)
		}

		count := 0
		for _, row := range rows {
			if err := insertRow(db, table, row); err != nil {
				failures = append(failures, rowError{Table: table, Row: row, Error: err.Error()})
				continue
			}
			count++
		}
		imported += count
		log.Printf("Imported %d/%d rows into %s", count, len(rows), table)
	}

	if len(failures) > 0 {
		logPath := fmt.Sprintf("import_errors_%s.json", time.Now().Format("20060102_150405"))
		data, err := json.MarshalIndent(failures, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode error log: %v", err)
		}
		if err := os.WriteFile(logPath, data, 0o644); err != nil {
			log.Fatalf("Failed to write error log: %v", err)
		}
		log.Printf("⚠️  %d rows failed, details in %s", len(failures), logPath)
	}

	log.Printf("✅ Import completed: %d rows", imported)
}

func loadRows(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func insertRow(db *sql.DB, table string, row map[string]interface{}) error {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	values := make([]interface{}, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		values[i] = row[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	_, err := db.Exec(query, values...)
	return err
}
