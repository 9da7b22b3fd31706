package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"betleague/internal/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Reverse of the import order so child rows go first.
func rollbackTables() []string {
	tables := models.MigrationTables()
	reversed := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		reversed = append(reversed, tables[i])
	}
	return reversed
}

func main() {
	if len(os.Args) < 3 || os.Args[2] != "--confirm" {
		fmt.Fprintln(os.Stderr, "Usage: migrate-rollback <export-dir> --confirm")
		fmt.Fprintln(os.Stderr, "Deletes every row recorded in the export directory from the database.")
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

	deleted := 0
	for _, table := range rollbackTables() {
		path := filepath.Join(exportDir, table+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Fatalf("Failed to read %s: %v", path, err)
		}

		var rows []map[string]interface{}
		if err := json.Unmarshal(data, &rows); err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}

		keyCol := "id"
		if table == "betting_settings" {
			keyCol = "key"
		}

		count := 0
		for _, row := range rows {
			key, ok := row[keyCol]
			if !ok {
				continue
			}
			result, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, keyCol), key)
			if err != nil {
				log.Printf("Failed to delete %s %v from %s: %v", keyCol, key, table, err)
				continue
			}
			if n, _ := result.RowsAffected(); n > 0 {
				count++
			}
		}
		deleted += count
		log.Printf("Deleted %d rows from %s", count, table)
	}

	log.Printf("✅ Rollback completed: %d rows removed", deleted)
}
