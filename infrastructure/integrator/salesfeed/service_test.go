package salesfeed

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-insights-api/infrastructure/integrator/salesfeed/mocks"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestSalesFeedService_GetDatasetNormalizesTickets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetDataset(gomock.Any()).Return(domain.Dataset{
		domain.PizzaStore: {
			{Date: 1, AllCustomerSales: 10, TotalAvgTicketAmount: math.Inf(1), LoyaltyCusAvgTicketAmount: math.NaN()},
			{Date: 2, AllCustomerSales: 20, TotalAvgTicketAmount: 4, LoyaltyCusAvgTicketAmount: 5},
		},
	}, nil)

	dataset, err := New(client).GetDataset(context.Background())
	require.NoError(t, err)

	records := dataset[domain.PizzaStore]
	require.Len(t, records, 2)
	assert.Zero(t, records[0].TotalAvgTicketAmount)
	assert.Zero(t, records[0].LoyaltyCusAvgTicketAmount)
	assert.Equal(t, 4.0, records[1].TotalAvgTicketAmount)
	assert.Equal(t, 5.0, records[1].LoyaltyCusAvgTicketAmount)
}

func TestSalesFeedService_LoadPropagatesClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetDataset(gomock.Any()).Return(nil, errors.New("connection refused"))

	service := New(client)
	dataset, err := service.Load(context.Background())
	assert.Nil(t, dataset)
	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, "http", service.Name())
}
