package domain

// Rótulos das séries exibidas nos gráficos
const (
	SeriesAllCustomers     = "All Customers"
	SeriesLoyaltyCustomers = "Loyalty Customers"
	SeriesSales            = "Sales"
	ChannelInStore         = "In-store"
	ChannelOnline          = "Online"
)

// ChartSeries é uma sequência numérica alinhada aos rótulos do gráfico
type ChartSeries struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ChartData é o payload consumido pelo componente de gráficos
type ChartData struct {
	Labels []string           `json:"labels"`
	Series []ChartSeries      `json:"series"`
	Totals map[string]float64 `json:"totals"`
}

// SeriesTotals soma cada campo numérico das séries agregadas
type SeriesTotals struct {
	AllCustomerSales          float64 `json:"allCustomerSales"`
	LoyaltyCustomerSales      float64 `json:"loyaltyCustomerSales"`
	InStoreSaleAmount         float64 `json:"inStoreSaleAmount"`
	OnlineSaleAmount          float64 `json:"onlineSaleAmount"`
	TotalAvgTicketAmount      float64 `json:"totalAvgTicketAmount"`
	LoyaltyCusAvgTicketAmount float64 `json:"loyaltyCusAvgTicketAmount"`
	TotalOrders               int     `json:"totalOrders"`
}

// AggregatedSeries projeta cada campo dos registros filtrados em arrays paralelos
type AggregatedSeries struct {
	Labels                    []string     `json:"labels"`
	DisplayDates              []string     `json:"displayDates"`
	AllCustomerSales          []float64    `json:"allCustomerSales"`
	LoyaltyCustomerSales      []float64    `json:"loyaltyCustomerSales"`
	InStoreSaleAmount         []float64    `json:"inStoreSaleAmount"`
	OnlineSaleAmount          []float64    `json:"onlineSaleAmount"`
	TotalAvgTicketAmount      []float64    `json:"totalAvgTicketAmount"`
	LoyaltyCusAvgTicketAmount []float64    `json:"loyaltyCusAvgTicketAmount"`
	TotalOrders               []int        `json:"totalOrders"`
	Totals                    SeriesTotals `json:"totals"`
}

// DashboardCharts é o resultado completo de uma consulta do dashboard
type DashboardCharts struct {
	Store       string       `json:"store"`
	Range       RangeKind    `json:"range"`
	Window      *RangeWindow `json:"window"`
	Description string       `json:"description"`
	RecordCount int          `json:"recordCount"`
	Summary     SeriesTotals `json:"summary"`
	Area        ChartData    `json:"area"`
	Bar         ChartData    `json:"bar"`
	Stacked     ChartData    `json:"stacked"`
}
