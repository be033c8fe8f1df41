package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"dictado/internal/config"
	"dictado/internal/database"
	"dictado/internal/progress"
	"dictado/internal/repository"
	"dictado/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	db, err := database.Open(database.ConnectionConfig{
		Type: cfg.DatabaseType,
		URL:  cfg.DatabaseURL,
		Path: cfg.DatabasePath,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	vocabRepo := repository.NewVocabularyRepository(db)
	progressService, err := service.NewProgressService(
		progress.NewTracker(),
		repository.NewHistoryRepository(db),
		repository.NewAchievementRepository(db),
		repository.NewStudyTimeRepository(db),
	)
	if err != nil {
		log.Fatalf("Failed to load progress history: %v", err)
	}
	backupService := service.NewBackupService(vocabRepo, progressService)
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, backupService, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	log.Printf("Exporting to: %s", outputPath)
	if err := backupService.Export(ctx, f); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if info, err := f.Stat(); err == nil {
		log.Printf("Export complete! File size: %.2f KB", float64(info.Size())/1024)
	}
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string) {
	f, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	fmt.Print("WARNING: import replaces stored vocabulary and progress. Type 'yes' to confirm: ")
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "yes" {
		log.Println("Import cancelled")
		return
	}

	log.Printf("Importing from: %s", inputPath)
	if err := backupService.Import(ctx, f); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("Dictado Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [-output FILE]   Export vocabulary and progress to JSON")
	fmt.Println("  backup import -input FILE      Replace stored data from a JSON backup")
}
