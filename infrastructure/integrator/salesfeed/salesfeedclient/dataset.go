package salesfeedclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Tamanho máximo do corpo de erro incluído na mensagem
const maxErrorBody = 512

// GetDataset baixa o documento JSON do feed, indexado pelo identificador da loja
func (c *SalesFeedClient) GetDataset(ctx context.Context) (domain.Dataset, error) {
	endpoint, err := url.Parse(c.config.URL)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao analisar a URL do feed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("requisição falhou com status: %s: %s", resp.Status, string(body))
	}

	var dataset domain.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&dataset); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar a resposta")
	}

	if dataset == nil {
		return nil, errors.New("feed retornou documento vazio")
	}

	return dataset, nil
}
