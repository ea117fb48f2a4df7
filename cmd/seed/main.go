package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-insights-api/infrastructure/database"
	"github.com/vfg2006/sales-insights-api/infrastructure/generator"
	"github.com/vfg2006/sales-insights-api/infrastructure/repository"
	"github.com/vfg2006/sales-insights-api/internal/config"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-insights-api/pkg/log"
	"github.com/vfg2006/sales-insights-api/pkg/utils"
)

// seed gera o feed de demonstração e grava no banco, ou imprime o documento JSON.
// Também gera o hash bcrypt para AUTH_PASSWORD_HASH.
func main() {
	days := flag.Int("days", 0, "dias de histórico por loja (padrão: FEED_MOCK_DAYS)")
	seed := flag.Int64("seed", 0, "semente do gerador (0 = relógio)")
	printOnly := flag.Bool("print", false, "imprime o documento JSON em vez de gravar no banco")
	hashPassword := flag.String("hash-password", "", "gera o hash bcrypt da senha informada e sai")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := authenticating.HashPassword(*hashPassword)
		if err != nil {
			logrus.Fatalf("ERRO ao gerar hash da senha: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	catalog, err := config.LoadStores(cfg.StoresFile)
	if err != nil {
		logrus.Fatal(err)
	}

	if *days <= 0 {
		*days = cfg.Feed.MockDays
	}

	opts := []generator.Option{generator.WithLocation(cfg.Location)}
	if *seed != 0 {
		opts = append(opts, generator.WithSeed(*seed))
	}

	dataset := generator.New(config.StoreIDs(catalog), *days, opts...).Generate()

	if *printOnly {
		fmt.Fprintln(os.Stdout, utils.PrettyJson(dataset))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao conectar ao banco")
	}
	defer conn.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		logrus.WithError(err).Fatal("ERRO ao aplicar migrations")
	}

	insertDataset(ctx, repository.NewSalesRecordRepository(conn), dataset)
}

func insertDataset(ctx context.Context, repo repository.SalesRecordRepository, dataset domain.Dataset) {
	stores := dataset.Stores()
	sort.Strings(stores)

	logrus.Infof("Iniciando inserção de %d lojas...", len(stores))
	startTime := time.Now()

	successCount := 0
	errorCount := 0

	for i, storeID := range stores {
		records := dataset[storeID]
		if err := repo.SaveOrUpdate(ctx, storeID, records); err != nil {
			logrus.Errorf("ERRO ao inserir loja [%d/%d] %s: %v", i+1, len(stores), storeID, err)
			errorCount++
			continue
		}

		successCount++
		logrus.Infof("Progresso: %d/%d lojas processadas (%s, %d registros)", i+1, len(stores), storeID, len(records))
	}

	elapsed := time.Since(startTime)
	logrus.Infof("Inserção concluída em %v. Sucesso: %d, Erros: %d", elapsed, successCount, errorCount)
}
