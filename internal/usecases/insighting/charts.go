package insighting

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/pkg/utils"
)

const weekLabelLayout = "Jan 2"

// AreaChart acumula as vendas de todos os clientes e dos clientes fidelidade ao longo do período
func AreaChart(series domain.AggregatedSeries) domain.ChartData {
	return domain.ChartData{
		Labels: cloneStrings(series.Labels),
		Series: []domain.ChartSeries{
			{Label: domain.SeriesAllCustomers, Values: runningTotals(series.AllCustomerSales)},
			{Label: domain.SeriesLoyaltyCustomers, Values: runningTotals(series.LoyaltyCustomerSales)},
		},
		Totals: map[string]float64{
			domain.SeriesAllCustomers:     series.Totals.AllCustomerSales,
			domain.SeriesLoyaltyCustomers: series.Totals.LoyaltyCustomerSales,
		},
	}
}

// BarChart divide as vendas entre loja física e online
func BarChart(series domain.AggregatedSeries) domain.ChartData {
	inStore := series.Totals.InStoreSaleAmount
	online := series.Totals.OnlineSaleAmount

	return domain.ChartData{
		Labels: []string{domain.ChannelInStore, domain.ChannelOnline},
		Series: []domain.ChartSeries{
			{Label: domain.SeriesSales, Values: []float64{inStore, online}},
		},
		Totals: map[string]float64{
			domain.SeriesSales: utils.SumWithTwoDecimalPlace([]float64{inStore, online}),
		},
	}
}

// StackedChart agrupa o ticket médio por semana (domingo a sábado)
func StackedChart(records []domain.SalesRecord, loc *time.Location) domain.ChartData {
	if loc == nil {
		loc = time.Local
	}

	type bucket struct {
		start   time.Time
		all     []float64
		loyalty []float64
	}

	var (
		buckets    []*bucket
		allTickets = make([]float64, 0, len(records))
		loyalty    = make([]float64, 0, len(records))
	)

	index := map[int64]*bucket{}
	for _, record := range records {
		record = record.Normalize()
		start := weekStart(record.Time(loc))

		b, ok := index[start.Unix()]
		if !ok {
			b = &bucket{start: start}
			index[start.Unix()] = b
			buckets = append(buckets, b)
		}

		b.all = append(b.all, record.TotalAvgTicketAmount)
		b.loyalty = append(b.loyalty, record.LoyaltyCusAvgTicketAmount)
		allTickets = append(allTickets, record.TotalAvgTicketAmount)
		loyalty = append(loyalty, record.LoyaltyCusAvgTicketAmount)
	}

	chart := domain.ChartData{
		Labels: make([]string, 0, len(buckets)),
		Series: []domain.ChartSeries{
			{Label: domain.SeriesAllCustomers, Values: make([]float64, 0, len(buckets))},
			{Label: domain.SeriesLoyaltyCustomers, Values: make([]float64, 0, len(buckets))},
		},
		Totals: map[string]float64{
			domain.SeriesAllCustomers:     utils.MeanWithTwoDecimalPlace(allTickets),
			domain.SeriesLoyaltyCustomers: utils.MeanWithTwoDecimalPlace(loyalty),
		},
	}

	for _, b := range buckets {
		chart.Labels = append(chart.Labels, b.start.Format(weekLabelLayout))
		chart.Series[0].Values = append(chart.Series[0].Values, utils.MeanWithTwoDecimalPlace(b.all))
		chart.Series[1].Values = append(chart.Series[1].Values, utils.MeanWithTwoDecimalPlace(b.loyalty))
	}

	return chart
}

func runningTotals(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	acc := decimal.Zero
	for _, v := range values {
		acc = acc.Add(decimal.NewFromFloat(v))
		out = append(out, acc.Round(2).InexactFloat64())
	}
	return out
}

func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
