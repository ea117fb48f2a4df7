package datasets

import (
	"context"
	"fmt"

	"github.com/vfg2006/sales-insights-api/infrastructure/repository"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

// RepositorySource lê o último snapshot persistido no banco
type RepositorySource struct {
	repo repository.SalesRecordRepository
}

func NewRepositorySource(repo repository.SalesRecordRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) Name() string {
	return "database"
}

func (s *RepositorySource) Load(ctx context.Context) (domain.Dataset, error) {
	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar lojas: %w", err)
	}

	dataset := make(domain.Dataset, len(stores))
	for _, store := range stores {
		records, err := s.repo.GetByStore(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("erro ao buscar registros da loja %s: %w", store, err)
		}
		dataset[store] = records
	}

	return dataset, nil
}
