package insighting

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
	"github.com/vfg2006/sales-insights-api/internal/usecases/periods"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

var ErrInvalidRange = errors.New("período inválido")

type Service struct {
	provider datasets.Provider
	resolver periods.Resolver
	catalog  []domain.Store
}

// NewService cria uma nova instância do serviço de insights
func NewService(provider datasets.Provider, resolver periods.Resolver, catalog []domain.Store) Insighter {
	return &Service{
		provider: provider,
		resolver: resolver,
		catalog:  catalog,
	}
}

func (s *Service) Ranges() []domain.RangeOption {
	return s.resolver.Options()
}

func (s *Service) GetDashboard(ctx context.Context, storeID string, kind domain.RangeKind, filters *domain.InsigthFilters) (*domain.DashboardCharts, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, kind)
	}

	window := s.resolver.Resolve(kind, filters)

	// Sem janela não há consulta: o dashboard fica vazio
	records := []domain.SalesRecord{}
	if window != nil {
		var err error
		records, err = s.provider.Records(ctx, storeID)
		if err != nil {
			return nil, err
		}
	}

	// Uma consulta mais nova pode ter cancelado esta enquanto o feed era carregado
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	charts := BuildCharts(FilterSorted(records, window), s.resolver)
	charts.Store = storeID
	charts.Range = kind
	charts.Window = window
	charts.Description = s.resolver.Describe(kind, filters)

	log.ForContext(ctx).WithFields(log.Fields{
		"store": storeID,
		"range": kind,
	}).Debugf("insighting: %d registros no período", charts.RecordCount)

	return charts, nil
}

// BuildCharts agrega registros já filtrados e ordenados em todos os gráficos do dashboard
func BuildCharts(records []domain.SalesRecord, resolver periods.Resolver) *domain.DashboardCharts {
	loc := resolver.Location()
	series := Aggregate(records, loc)

	return &domain.DashboardCharts{
		RecordCount: len(records),
		Summary:     series.Totals,
		Area:        AreaChart(series),
		Bar:         BarChart(series),
		Stacked:     StackedChart(records, loc),
	}
}

func (s *Service) ListStores(ctx context.Context) ([]domain.Store, error) {
	available, err := s.provider.Stores(ctx)
	if err != nil {
		return nil, err
	}

	stores := make([]domain.Store, 0, len(s.catalog)+len(available))
	known := make(map[string]bool, len(s.catalog))
	for _, store := range s.catalog {
		store.Available = slices.Contains(available, store.ID)
		stores = append(stores, store)
		known[store.ID] = true
	}

	// Lojas presentes no feed mas fora do catálogo usam o próprio id como nome
	for _, id := range available {
		if !known[id] {
			stores = append(stores, domain.Store{ID: id, Name: id, Available: true})
		}
	}

	return stores, nil
}
