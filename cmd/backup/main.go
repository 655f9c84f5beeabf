package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"civicstrainer/internal/config"
	"civicstrainer/internal/models"
	"civicstrainer/internal/repository"
	"civicstrainer/internal/service"
	"civicstrainer/internal/utils"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: progress_YYYYMMDD_HHMMSS.<format>)")
	exportFormat := exportCmd.String("format", service.FormatJSON, "Export format: json or xlsx")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Replace stored progress instead of merging (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()
	logger := utils.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	// Open the state store; SQL backends run their migrations here
	store, err := repository.OpenStateStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	defer store.Close()

	// Create backup service
	backupService := service.NewBackupService(store, cfg.StateKey, logger)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		var items []models.Item
		if *exportFormat == service.FormatXLSX {
			items = loadItems(ctx, cfg)
		}
		handleExport(ctx, backupService, *exportOutput, *exportFormat, items)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, backupService, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

// loadItems reads both banks so spreadsheet rows carry question text.
// A failed load only costs the extra columns.
func loadItems(ctx context.Context, cfg *config.Config) []models.Item {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	banks := repository.NewQuestionRepository(cfg.QASource, cfg.MCQSource, utils.DiscardLogger()).Load(ctx)
	if banks.Failed() {
		log.Printf("Question banks unavailable, exporting without question text: %v", banks.QAErr)
		return nil
	}
	return append(banks.ShortAnswerItems(), banks.MultipleChoiceItems()...)
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath, format string, items []models.Item) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("progress_%s.%s", timestamp, format)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}

	log.Printf("Exporting progress to: %s", outputPath)
	if err := backupService.Export(ctx, file, format, items); err != nil {
		file.Close()
		os.Remove(outputPath)
		log.Fatalf("Export failed: %v", err)
	}
	if err := file.Close(); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	// Get file size
	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string, clearData bool) {
	file, err := os.Open(inputPath)
	if os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer file.Close()

	if clearData {
		fmt.Print("WARNING: This will replace all stored progress. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}
	}

	log.Printf("Importing progress from: %s", inputPath)
	if err := backupService.Import(ctx, file, clearData); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("Civics Trainer Progress Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export answer history and preferences")
	fmt.Println("  backup import [options]    Import a JSON export")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: progress_YYYYMMDD_HHMMSS.<format>)")
	fmt.Println("  -format <fmt>     json (importable) or xlsx (spreadsheet) (default: json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Replace stored progress instead of merging (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Export progress")
	fmt.Println("  backup export")
	fmt.Println("  backup export -format xlsx -output progress.xlsx")
	fmt.Println()
	fmt.Println("  # Import progress (merge with stored history)")
	fmt.Println("  backup import -input progress.json")
	fmt.Println()
	fmt.Println("  # Import progress (replace stored history)")
	fmt.Println("  backup import -input progress.json -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Store type: sqlite, postgres, mysql or redis (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./civicstrainer.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  REDIS_URL        Redis connection URL")
	fmt.Println("  STATE_KEY        Key the progress is stored under")
	fmt.Println("  QA_SOURCE        Short-answer bank, used for xlsx question text")
	fmt.Println("  MCQ_SOURCE       Multiple-choice bank, used for xlsx question text")
}
