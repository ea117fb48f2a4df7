package insighting

import (
	"slices"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/pkg/utils"
)

// FilterSorted retorna os registros dentro da janela em ordem cronológica.
// A entrada não é alterada. Sem janela o resultado é vazio.
func FilterSorted(records []domain.SalesRecord, window *domain.RangeWindow) []domain.SalesRecord {
	if window == nil {
		return []domain.SalesRecord{}
	}

	filtered := make([]domain.SalesRecord, 0, len(records))
	for _, record := range records {
		if window.Contains(record.Date) {
			filtered = append(filtered, record)
		}
	}

	slices.SortStableFunc(filtered, func(a, b domain.SalesRecord) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})

	return filtered
}

// Aggregate projeta cada campo em arrays paralelos, na ordem recebida, e soma os totais
func Aggregate(records []domain.SalesRecord, loc *time.Location) domain.AggregatedSeries {
	if loc == nil {
		loc = time.Local
	}

	n := len(records)
	series := domain.AggregatedSeries{
		Labels:                    make([]string, 0, n),
		DisplayDates:              make([]string, 0, n),
		AllCustomerSales:          make([]float64, 0, n),
		LoyaltyCustomerSales:      make([]float64, 0, n),
		InStoreSaleAmount:         make([]float64, 0, n),
		OnlineSaleAmount:          make([]float64, 0, n),
		TotalAvgTicketAmount:      make([]float64, 0, n),
		LoyaltyCusAvgTicketAmount: make([]float64, 0, n),
		TotalOrders:               make([]int, 0, n),
	}

	for _, record := range records {
		record = record.Normalize()
		date := record.Time(loc)

		displayDate := record.DisplayDate
		if displayDate == "" {
			displayDate = date.Format(displayDateLayout)
		}

		series.Labels = append(series.Labels, date.Format(utils.DateLayout))
		series.DisplayDates = append(series.DisplayDates, displayDate)
		series.AllCustomerSales = append(series.AllCustomerSales, record.AllCustomerSales)
		series.LoyaltyCustomerSales = append(series.LoyaltyCustomerSales, record.LoyaltyCustomerSales)
		series.InStoreSaleAmount = append(series.InStoreSaleAmount, record.InStoreSaleAmount)
		series.OnlineSaleAmount = append(series.OnlineSaleAmount, record.OnlineSaleAmount)
		series.TotalAvgTicketAmount = append(series.TotalAvgTicketAmount, record.TotalAvgTicketAmount)
		series.LoyaltyCusAvgTicketAmount = append(series.LoyaltyCusAvgTicketAmount, record.LoyaltyCusAvgTicketAmount)
		series.TotalOrders = append(series.TotalOrders, record.TotalOrders)
	}

	series.Totals = domain.SeriesTotals{
		AllCustomerSales:          utils.SumWithTwoDecimalPlace(series.AllCustomerSales),
		LoyaltyCustomerSales:      utils.SumWithTwoDecimalPlace(series.LoyaltyCustomerSales),
		InStoreSaleAmount:         utils.SumWithTwoDecimalPlace(series.InStoreSaleAmount),
		OnlineSaleAmount:          utils.SumWithTwoDecimalPlace(series.OnlineSaleAmount),
		TotalAvgTicketAmount:      utils.SumWithTwoDecimalPlace(series.TotalAvgTicketAmount),
		LoyaltyCusAvgTicketAmount: utils.SumWithTwoDecimalPlace(series.LoyaltyCusAvgTicketAmount),
	}
	for _, orders := range series.TotalOrders {
		series.Totals.TotalOrders += orders
	}

	return series
}

// Formato usado pelo gerador de dados para a data exibida
const displayDateLayout = "Mon Jan 02 2006"
