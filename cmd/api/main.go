package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-insights-api/infrastructure/database"
	"github.com/vfg2006/sales-insights-api/infrastructure/generator"
	"github.com/vfg2006/sales-insights-api/infrastructure/integrator/salesfeed"
	"github.com/vfg2006/sales-insights-api/infrastructure/integrator/salesfeed/salesfeedclient"
	"github.com/vfg2006/sales-insights-api/infrastructure/repository"
	"github.com/vfg2006/sales-insights-api/internal/api"
	"github.com/vfg2006/sales-insights-api/internal/config"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/scheduler"
	"github.com/vfg2006/sales-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-insights-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/internal/usecases/periods"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

func main() {
	configureWorkdir()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, err := config.LoadStores(cfg.StoresFile)
	if err != nil {
		logrus.Fatal(err)
	}

	var salesRecordRepo repository.SalesRecordRepository
	if cfg.UsesDatabase() {
		conn := dbconn(ctx, cfg.Database)
		defer conn.Close()

		salesRecordRepo = repository.NewSalesRecordRepository(conn)
	}

	source, err := newSource(cfg, catalog, salesRecordRepo)
	if err != nil {
		logrus.Fatal(err)
	}

	provider := datasets.NewProvider(source)
	resolver := periods.NewResolver(cfg.Location)
	insightService := insighting.NewService(provider, resolver, catalog)
	sessionManager := dashboard.NewManager(
		insightService,
		dashboard.WithIdleTTL(cfg.Session.IdleTTL, cfg.Session.ReapInterval),
	)
	if err := sessionManager.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar a limpeza de sessões ociosas")
	}
	authenticator := authenticating.NewService(cfg)

	feedRefreshService := scheduler.NewFeedRefreshService(provider, salesRecordRepo, cfg)
	if err := feedRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização do feed")
	} else {
		logrus.Info("Agendador de atualização do feed iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		insightService,
		sessionManager,
		authenticator,
		feedRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// newSource escolhe a origem do documento de vendas conforme FEED_SOURCE
func newSource(cfg *config.Config, catalog []domain.Store, repo repository.SalesRecordRepository) (datasets.Source, error) {
	logrus.WithField("feed_source", cfg.Feed.Source).Info("Origem do feed de vendas selecionada")

	switch cfg.Feed.Source {
	case config.FeedSourceMock:
		opts := []generator.Option{generator.WithLocation(cfg.Location)}
		if cfg.Feed.MockSeed != 0 {
			opts = append(opts, generator.WithSeed(cfg.Feed.MockSeed))
		}
		return generator.New(config.StoreIDs(catalog), cfg.Feed.MockDays, opts...), nil

	case config.FeedSourceHTTP:
		client := salesfeedclient.NewClient(&cfg.Feed)
		return salesfeed.New(client), nil

	case config.FeedSourceDatabase:
		if repo == nil {
			return nil, fmt.Errorf("FEED_SOURCE=%s exige conexão com o banco", config.FeedSourceDatabase)
		}
		return datasets.NewRepositorySource(repo), nil
	}

	return nil, fmt.Errorf("FEED_SOURCE desconhecido: %s", cfg.Feed.Source)
}

// configureWorkdir posiciona o processo na pasta do binário para encontrar o .env local
func configureWorkdir() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)
}

// dbconn cria a conexão com o banco e aplica as migrations quando habilitado
func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatalf("Erro ao conectar ao banco (%s)", dbConfig.Driver)
	}

	if dbConfig.Migrate {
		if err := database.RunMigrations(dbConfig); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrations")
		}
		logrus.Info("Migrations aplicadas com sucesso")
	}

	logrus.WithField("driver", conn.Driver).Info("Conexão com o banco estabelecida com sucesso")
	return conn
}
