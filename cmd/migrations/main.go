package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/eforms/internal/config"
)

const usage = `usage: migrations <name>|all

<name> runs the first file in the migrations directory whose name ends with
<name>.sql, e.g. "0003_create_forms.up". "all" runs every *.up.sql file in
name order.`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	migrationName := os.Args[1]

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

	names := []string{migrationName}
	if migrationName == "all" {
		names, err = upMigrations(basePath)
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, name := range names {
		fileContent, err := migrationFileContent(basePath, name)
		if err != nil {
			log.Fatalf("%s: %v", name, err)
		}

		if _, err := db.Exec(string(fileContent)); err != nil {
			log.Fatalf("Failed to execute SQL file %s: %v", name, err)
		}
		fmt.Printf("Migration %s executed successfully.\n", name)
	}
}

func upMigrations(basePath string) ([]string, error) {
	files, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(f.Name(), ".up.sql"); ok {
			names = append(names, name+".up")
		}
	}
	sort.Strings(names)
	return names, nil
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	filePath, err := migrationFilePath(basePath, migrationName)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(filepath.Join(basePath, filePath))
}

func migrationFilePath(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found")
}
