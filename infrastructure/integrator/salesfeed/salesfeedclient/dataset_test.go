package salesfeedclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-insights-api/internal/config"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

const feedBody = `{
	"pizzaStore": [
		{"date": 1736913600000, "displayDate": "Wed Jan 15 2025", "allCustomerSales": 100, "loyaltyCustomerSales": 40,
		 "inStoreSaleAmount": 30, "onlineSaleAmount": 70, "totalAvgTicketAmount": 10, "loyaltyCusAvgTicketAmount": 12, "totalOrders": 10}
	],
	"decathlon": []
}`

func TestSalesFeedClient_GetDataset(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(&config.Feed{URL: server.URL, Token: "abc", Timeout: time.Second})

	dataset, err := client.GetDataset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	require.Len(t, dataset[domain.PizzaStore], 1)
	assert.Empty(t, dataset[domain.Decathlon])

	record := dataset[domain.PizzaStore][0]
	assert.Equal(t, int64(1736913600000), record.Date)
	assert.Equal(t, "Wed Jan 15 2025", record.DisplayDate)
	assert.Equal(t, 100.0, record.AllCustomerSales)
	assert.Equal(t, 10, record.TotalOrders)
}

func TestSalesFeedClient_GetDatasetErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "Status diferente de 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: "500",
		},
		{
			name: "Corpo inválido",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"pizzaStore": "nope"`))
			},
			wantErr: "erro ao decodificar a resposta",
		},
		{
			name: "Documento nulo",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			wantErr: "feed retornou documento vazio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(&config.Feed{URL: server.URL})

			dataset, err := client.GetDataset(context.Background())
			require.Error(t, err)
			assert.Nil(t, dataset)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSalesFeedClient_GetDatasetWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	dataset, err := NewClient(&config.Feed{URL: server.URL}).GetDataset(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dataset)
}

func TestSalesFeedClient_GetDatasetCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(&config.Feed{URL: server.URL}).GetDataset(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
