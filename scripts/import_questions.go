// Loads a dataset export into the question catalog.
//
// Usage:
//
//	go run scripts/import_questions.go -file data/questions.json
//	go run scripts/import_questions.go -token admin-1
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sat_practice_backend/internal/config"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/internal/service"
	"sat_practice_backend/internal/util"
	"sat_practice_backend/pkg/database"
	"sat_practice_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "JSON array of raw question records")
	reset := flag.Bool("reset", false, "delete every question before importing")
	token := flag.String("token", "", "print an admin token for this user id and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	if *token != "" {
		t, err := util.GenerateJWT(*token, model.Admin, cfg.JWT.Secret, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(t)
		return
	}
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	questions := repository.NewQuestionRepository(db)
	catalogSvc := service.NewCatalogService(questions, rdb, cfg.Catalog)
	imports := service.NewImportService(questions, catalogSvc, service.NewStorageService(&cfg.Storage), cfg.Import)

	ctx := context.Background()
	if *reset {
		n, err := service.NewAdminService(questions, catalogSvc).ResetQuestions(ctx)
		if err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		logger.Log.Info("Catalog reset", zap.Int64("deleted", n))
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	res, err := imports.ImportJSON(ctx, f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	fmt.Printf("processed=%d imported=%d skipped=%d errors=%d\n",
		res.TotalProcessed, res.SuccessfullyImported, res.Skipped, len(res.Errors))
	if res.ReportURL != "" {
		fmt.Println("error report:", res.ReportURL)
	}
}
