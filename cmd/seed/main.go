package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"telegram-code-store/internal/config"
	"telegram-code-store/internal/domain/model"
	pg "telegram-code-store/internal/infra/db/postgres"
	"telegram-code-store/internal/infra/logging"
	"telegram-code-store/internal/usecase"
)

// seed imports code payloads from a text file, one payload per line:
//
//	go run ./cmd/seed -config config.yaml -type 7d -file codes.txt
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	typeArg := flag.String("type", "", "product type: 7d or 30d")
	filePath := flag.String("file", "", "text file with one code payload per line")
	flag.Parse()

	if *typeArg == "" || *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	typ, err := model.ParseProductType(*typeArg)
	if err != nil {
		log.Fatalf("unknown product type %q, use 7d or 30d", *typeArg)
	}

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, false)

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read %s: %v", *filePath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	tm := pg.NewTxManager(pool)
	codeRepo := pg.NewCodeRepo(pool)
	invUC := usecase.NewInventoryUseCase(codeRepo, tm, logger)

	payloads := invUC.ParsePayloads(string(raw))
	if len(payloads) == 0 {
		log.Fatalf("no payloads found in %s", *filePath)
	}

	n, err := invUC.BulkImport(ctx, typ, payloads)
	if err != nil {
		log.Fatalf("bulk import: %v", err)
	}

	total, err := invUC.CountUnused(ctx, typ)
	if err != nil {
		log.Fatalf("count unused: %v", err)
	}
	fmt.Printf("imported %d codes into %s stock (now %d unused)\n", n, typ, total)
}
