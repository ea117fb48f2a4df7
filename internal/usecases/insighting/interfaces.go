package insighting

import (
	"context"

	"github.com/vfg2006/sales-insights-api/internal/domain"
)

// Insighter monta os gráficos do dashboard para uma loja e um período
type Insighter interface {
	// GetDashboard executa resolve → filtro/ordenação → agregação para a loja e o período
	GetDashboard(ctx context.Context, storeID string, kind domain.RangeKind, filters *domain.InsigthFilters) (*domain.DashboardCharts, error)

	// ListStores retorna o catálogo de lojas indicando quais existem no feed atual
	ListStores(ctx context.Context) ([]domain.Store, error)

	// Ranges lista os períodos disponíveis
	Ranges() []domain.RangeOption
}
