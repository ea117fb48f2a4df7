package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/sales-insights-api/infrastructure/repository"
	"github.com/vfg2006/sales-insights-api/internal/config"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
)

const syncTimeout = 10 * time.Minute

var ErrSyncAlreadyRunning = errors.New("atualização do feed já em andamento")

// FeedRefreshConfig representa a configuração do agendador de atualização do feed
type FeedRefreshConfig struct {
	CronSchedule      string
	SyncEnabled       bool
	Persist           bool
	MaxConcurrentJobs int
	RetentionDays     int
}

// FeedRefreshService recarrega o feed de vendas periodicamente e, opcionalmente, grava os registros no banco
type FeedRefreshService struct {
	scheduler *gocron.Scheduler
	config    FeedRefreshConfig
	provider  datasets.Provider
	repo      repository.SalesRecordRepository
	now       func() time.Time

	baseCtx context.Context

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastError           string
	lastStores          int
	lastRecords         int
}

// NewFeedRefreshService cria o serviço. repo pode ser nil quando a persistência está desligada.
func NewFeedRefreshService(
	provider datasets.Provider,
	repo repository.SalesRecordRepository,
	appConfig *config.Config,
) *FeedRefreshService {
	refreshConfig := FeedRefreshConfig{
		CronSchedule:      appConfig.FeedRefresh.CronSchedule,
		SyncEnabled:       appConfig.FeedRefresh.Enabled,
		Persist:           appConfig.FeedRefresh.Persist && repo != nil,
		MaxConcurrentJobs: appConfig.FeedRefresh.MaxConcurrentJobs,
		RetentionDays:     appConfig.FeedRefresh.RetentionDays,
	}

	if refreshConfig.MaxConcurrentJobs <= 0 {
		refreshConfig.MaxConcurrentJobs = 1
	}

	location := appConfig.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       refreshConfig.CronSchedule,
		"sync_enabled":        refreshConfig.SyncEnabled,
		"persist":             refreshConfig.Persist,
		"max_concurrent_jobs": refreshConfig.MaxConcurrentJobs,
		"retention_days":      refreshConfig.RetentionDays,
		"feed_source":         provider.SourceName(),
	}).Info("Configuração do agendador de atualização do feed carregada")

	return &FeedRefreshService{
		scheduler: gocron.NewScheduler(location),
		config:    refreshConfig,
		provider:  provider,
		repo:      repo,
		now:       time.Now,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador
func (s *FeedRefreshService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		logrus.Info("Atualização periódica do feed desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de atualização do feed")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if !s.tryStart() {
			logrus.Info("Atualização do feed já em andamento, ignorando execução agendada")
			return
		}
		s.run()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização do feed: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de atualização do feed")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara uma atualização em segundo plano
func (s *FeedRefreshService) TriggerManualSync() error {
	if !s.tryStart() {
		logrus.Info("Atualização do feed já em andamento, ignorando solicitação manual")
		return ErrSyncAlreadyRunning
	}

	logrus.Info("Iniciando atualização manual do feed")
	go s.run()

	return nil
}

// RunSync executa uma atualização completa e aguarda o término
func (s *FeedRefreshService) RunSync(ctx context.Context) error {
	if !s.tryStart() {
		return ErrSyncAlreadyRunning
	}
	return s.sync(ctx)
}

func (s *FeedRefreshService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	return true
}

func (s *FeedRefreshService) run() {
	s.syncMutex.Lock()
	base := s.baseCtx
	s.syncMutex.Unlock()

	_ = s.sync(base)
}

// sync assume que tryStart já marcou a execução
func (s *FeedRefreshService) sync(parent context.Context) (err error) {
	ctx, cancel := context.WithTimeout(parent, syncTimeout)
	defer cancel()

	startTime := s.now()
	var stores, records int

	defer func() {
		s.syncMutex.Lock()
		defer s.syncMutex.Unlock()

		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.lastStores = stores
		s.lastRecords = records
		s.lastError = ""
		if err != nil {
			s.lastError = err.Error()
		}
	}()

	logrus.WithField("feed_source", s.provider.SourceName()).Info("Iniciando atualização do feed de vendas")

	if err = s.provider.Refresh(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao recarregar o feed de vendas")
		return err
	}

	dataset, _ := s.provider.Snapshot()
	stores = len(dataset)
	for _, storeRecords := range dataset {
		records += len(storeRecords)
	}

	if s.shouldPersist() {
		if err = s.persist(ctx, dataset); err != nil {
			logrus.WithError(err).Error("Erro ao gravar registros do feed no banco de dados")
			return err
		}

		if err = s.applyRetention(ctx); err != nil {
			logrus.WithError(err).Error("Erro ao aplicar retenção dos registros de vendas")
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"duration": s.now().Sub(startTime).String(),
		"stores":   stores,
		"records":  records,
	}).Info("Atualização do feed de vendas concluída")

	return nil
}

// shouldPersist evita regravar no banco o que acabou de ser lido dele
func (s *FeedRefreshService) shouldPersist() bool {
	return s.config.Persist && s.provider.SourceName() != config.FeedSourceDatabase
}

func (s *FeedRefreshService) persist(ctx context.Context, dataset domain.Dataset) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrentJobs)

	for storeID, storeRecords := range dataset {
		g.Go(func() error {
			if err := s.repo.SaveOrUpdate(gctx, storeID, storeRecords); err != nil {
				return fmt.Errorf("erro ao gravar registros da loja %s: %w", storeID, err)
			}

			logrus.WithFields(logrus.Fields{
				"store":   storeID,
				"records": len(storeRecords),
			}).Debug("Registros da loja gravados")

			return nil
		})
	}

	return g.Wait()
}

func (s *FeedRefreshService) applyRetention(ctx context.Context) error {
	if s.config.RetentionDays <= 0 {
		return nil
	}

	deleted, err := s.repo.DeleteOlderThan(ctx, s.config.RetentionDays)
	if err != nil {
		return err
	}

	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"deleted":        deleted,
			"retention_days": s.config.RetentionDays,
		}).Info("Registros antigos removidos")
	}

	return nil
}

// GetStatus retorna o status atual do agendador
func (s *FeedRefreshService) GetStatus() domain.FeedStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return domain.FeedStatus{
		Enabled:             s.config.SyncEnabled,
		Running:             s.syncRunning,
		CronSchedule:        s.config.CronSchedule,
		Source:              s.provider.SourceName(),
		LastSyncStartedAt:   s.lastSyncStartedAt,
		LastSyncCompletedAt: s.lastSyncCompletedAt,
		LastError:           s.lastError,
		Stores:              s.lastStores,
		Records:             s.lastRecords,
	}
}
