package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting/mocks"
	"github.com/vfg2006/sales-insights-api/pkg/apiErrors"
)

func TestGetStoreInsights(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setup      func(*mocks.MockInsighter)
		wantStatus int
		wantCode   string
		validate   func(t *testing.T, body []byte)
	}{
		{
			name:   "Período padrão é o último mês",
			target: "/v1/stores/pizzaStore/insights",
			setup: func(m *mocks.MockInsighter) {
				m.EXPECT().
					GetDashboard(gomock.Any(), domain.PizzaStore, domain.RangeLastMonth, gomock.Nil()).
					Return(&domain.DashboardCharts{Store: domain.PizzaStore, Range: domain.RangeLastMonth, RecordCount: 28}, nil)
			},
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				var charts domain.DashboardCharts
				require.NoError(t, json.Unmarshal(body, &charts))
				assert.Equal(t, domain.PizzaStore, charts.Store)
				assert.Equal(t, 28, charts.RecordCount)
			},
		},
		{
			name:   "Período customizado repassa as datas no fuso configurado",
			target: "/v1/stores/decathlon/insights?range=custom&start_date=2025-01-10&end_date=2025-01-20",
			setup: func(m *mocks.MockInsighter) {
				m.EXPECT().
					GetDashboard(gomock.Any(), domain.Decathlon, domain.RangeCustom, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ domain.RangeKind, filters *domain.InsigthFilters) (*domain.DashboardCharts, error) {
						require.NotNil(t, filters)
						assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), *filters.StartDate)
						assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), *filters.EndDate)
						return &domain.DashboardCharts{Store: domain.Decathlon}, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "Período customizado sem fim não é erro",
			target: "/v1/stores/decathlon/insights?range=custom&start_date=2025-01-10",
			setup: func(m *mocks.MockInsighter) {
				m.EXPECT().
					GetDashboard(gomock.Any(), domain.Decathlon, domain.RangeCustom, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ domain.RangeKind, filters *domain.InsigthFilters) (*domain.DashboardCharts, error) {
						assert.Nil(t, filters.EndDate)
						return &domain.DashboardCharts{Store: domain.Decathlon}, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Data malformada",
			target:     "/v1/stores/decathlon/insights?range=custom&start_date=10/01/2025&end_date=2025-01-20",
			setup:      func(m *mocks.MockInsighter) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:   "Período desconhecido",
			target: "/v1/stores/decathlon/insights?range=lastWeek",
			setup: func(m *mocks.MockInsighter) {
				m.EXPECT().
					GetDashboard(gomock.Any(), domain.Decathlon, domain.RangeKind("lastWeek"), gomock.Nil()).
					Return(nil, fmt.Errorf("%w: %q", insighting.ErrInvalidRange, "lastWeek"))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRange,
		},
		{
			name:   "Loja fora do feed",
			target: "/v1/stores/outlet/insights",
			setup: func(m *mocks.MockInsighter) {
				m.EXPECT().
					GetDashboard(gomock.Any(), "outlet", domain.RangeLastMonth, gomock.Nil()).
					Return(nil, fmt.Errorf("%w: outlet", datasets.ErrStoreNotFound))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrNotFound,
		},
		{
			name:   "Feed indisponível devolve a mensagem fixa",
			target: "/v1/stores/pizzaStore/insights",
			setup: func(m *mocks.MockInsighter) {
				m.EXPECT().
					GetDashboard(gomock.Any(), domain.PizzaStore, domain.RangeLastMonth, gomock.Nil()).
					Return(nil, fmt.Errorf("%w: connection refused", datasets.ErrFeedUnavailable))
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   apiErrors.ErrExternalService,
			validate: func(t *testing.T, body []byte) {
				var apiErr apiErrors.APIError
				require.NoError(t, json.Unmarshal(body, &apiErr))
				assert.Equal(t, "Error loading data! Please try again.", apiErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			insighter := mocks.NewMockInsighter(ctrl)
			tt.setup(insighter)

			h := newTestRouter(domain.RoleViewer, Insights(insighter, time.UTC))
			rec := doRequest(t, h, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
			if tt.validate != nil {
				tt.validate(t, rec.Body.Bytes())
			}
		})
	}
}

func TestListStoresAndRanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	insighter := mocks.NewMockInsighter(ctrl)

	insighter.EXPECT().ListStores(gomock.Any()).Return([]domain.Store{
		{ID: domain.PizzaStore, Name: "Pizza Store", Available: true},
		{ID: domain.CanadaGoose, Name: "Canada Goose", Available: false},
	}, nil)
	insighter.EXPECT().Ranges().Return([]domain.RangeOption{
		{Name: "Last Month", Value: domain.RangeLastMonth},
	})

	h := newTestRouter(domain.RoleViewer, Insights(insighter, time.UTC))

	rec := doRequest(t, h, http.MethodGet, "/v1/stores", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stores []domain.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stores))
	require.Len(t, stores, 2)
	assert.True(t, stores[0].Available)
	assert.False(t, stores[1].Available)

	rec = doRequest(t, h, http.MethodGet, "/v1/ranges", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Last Month","value":"lastMonth"}]`, rec.Body.String())
}

func TestListStores_FeedUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	insighter := mocks.NewMockInsighter(ctrl)
	insighter.EXPECT().ListStores(gomock.Any()).Return(nil, datasets.ErrFeedUnavailable)

	h := newTestRouter(domain.RoleViewer, Insights(insighter, time.UTC))
	rec := doRequest(t, h, http.MethodGet, "/v1/stores", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, apiErrors.ErrExternalService, decodeError(t, rec).Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(domain.RoleViewer, Healthcheck())

	rec := doRequest(t, h, http.MethodGet, "/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrNotFound, decodeError(t, rec).Code)

	rec = doRequest(t, h, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
