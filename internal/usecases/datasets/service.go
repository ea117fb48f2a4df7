package datasets

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

// Source é uma origem do documento de vendas (mock, http ou banco)
type Source interface {
	Load(ctx context.Context) (domain.Dataset, error)
	Name() string
}

type Provider interface {
	// Records retorna os registros da loja no snapshot atual, carregando o feed se necessário
	Records(ctx context.Context, storeID string) ([]domain.SalesRecord, error)

	// Stores lista as lojas presentes no snapshot atual
	Stores(ctx context.Context) ([]string, error)

	// Refresh recarrega a origem e publica um novo snapshot
	Refresh(ctx context.Context) error

	// Snapshot retorna o dataset publicado e o instante da carga
	Snapshot() (domain.Dataset, time.Time)

	SourceName() string
}

type provider struct {
	source Source
	now    func() time.Time

	mu       sync.RWMutex
	dataset  domain.Dataset
	loadedAt time.Time

	loadMu sync.Mutex
}

func NewProvider(source Source) Provider {
	return &provider{
		source: source,
		now:    time.Now,
	}
}

func (p *provider) SourceName() string {
	return p.source.Name()
}

func (p *provider) Records(ctx context.Context, storeID string) ([]domain.SalesRecord, error) {
	dataset, err := p.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	records, ok := dataset[storeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, storeID)
	}

	return slices.Clone(records), nil
}

func (p *provider) Stores(ctx context.Context) ([]string, error) {
	dataset, err := p.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	stores := dataset.Stores()
	sort.Strings(stores)
	return stores, nil
}

func (p *provider) Refresh(ctx context.Context) error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	return p.load(ctx)
}

func (p *provider) Snapshot() (domain.Dataset, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.dataset, p.loadedAt
}

// ensureLoaded carrega o feed na primeira consulta; cargas concorrentes esperam a mesma execução
func (p *provider) ensureLoaded(ctx context.Context) (domain.Dataset, error) {
	if dataset, _ := p.Snapshot(); dataset != nil {
		return dataset, nil
	}

	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	if dataset, _ := p.Snapshot(); dataset != nil {
		return dataset, nil
	}

	if err := p.load(ctx); err != nil {
		return nil, err
	}

	dataset, _ := p.Snapshot()
	return dataset, nil
}

func (p *provider) load(ctx context.Context) error {
	logger := log.ForContext(ctx).WithField("source", p.source.Name())

	started := p.now()
	loaded, err := p.source.Load(ctx)
	if err != nil {
		logger.WithError(err).Error("datasets: falha ao carregar o feed de vendas")
		return fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	// Cópia própria para que ninguém altere o snapshot publicado
	dataset := make(domain.Dataset, len(loaded))
	total := 0
	for store, records := range loaded {
		dataset[store] = slices.Clone(records)
		total += len(records)
	}

	p.mu.Lock()
	p.dataset = dataset
	p.loadedAt = p.now()
	p.mu.Unlock()

	logger.Infof("datasets: feed carregado com %d lojas e %d registros em %s", len(dataset), total, p.now().Sub(started))
	return nil
}
