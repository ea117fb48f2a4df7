package salesfeedclient

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/config"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

type Client interface {
	GetDataset(ctx context.Context) (domain.Dataset, error)
}

type SalesFeedClient struct {
	httpClient *http.Client
	config     *config.Feed
}

// NewClient cria o cliente HTTP do feed de vendas
func NewClient(cfg *config.Feed) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SalesFeedClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}
