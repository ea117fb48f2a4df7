package salesfeed

import (
	"context"

	"github.com/vfg2006/sales-insights-api/infrastructure/integrator/salesfeed/salesfeedclient"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

type SalesFeedService struct {
	Client salesfeedclient.Client
}

func New(client salesfeedclient.Client) *SalesFeedService {
	return &SalesFeedService{
		Client: client,
	}
}

// GetDataset retorna o feed completo com os tickets médios saneados
func (s *SalesFeedService) GetDataset(ctx context.Context) (domain.Dataset, error) {
	dataset, err := s.Client.GetDataset(ctx)
	if err != nil {
		return nil, err
	}

	for store, records := range dataset {
		normalized := make([]domain.SalesRecord, len(records))
		for i, record := range records {
			normalized[i] = record.Normalize()
		}
		dataset[store] = normalized
	}

	return dataset, nil
}

// Load implementa a origem de dados do provedor de datasets
func (s *SalesFeedService) Load(ctx context.Context) (domain.Dataset, error) {
	return s.GetDataset(ctx)
}

func (s *SalesFeedService) Name() string {
	return "http"
}
