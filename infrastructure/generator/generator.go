package generator

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/domain"
)

const displayDateLayout = "Mon Jan 02 2006"

// Generator produz vendas diárias aleatórias para demonstração do dashboard
type Generator struct {
	stores   []string
	days     int
	seed     int64
	location *time.Location
	now      func() time.Time
}

type Option func(*Generator)

// WithSeed fixa a semente e torna a saída reproduzível
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithLocation(location *time.Location) Option {
	return func(g *Generator) {
		if location != nil {
			g.location = location
		}
	}
}

func New(stores []string, days int, opts ...Option) *Generator {
	g := &Generator{
		stores:   stores,
		days:     days,
		location: time.Local,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Load implementa a origem de dados do provedor de datasets
func (g *Generator) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.Generate(), nil
}

func (g *Generator) Name() string {
	return "mock"
}

// Generate monta o dataset completo, um registro por loja por dia, do mais recente ao mais antigo
func (g *Generator) Generate() domain.Dataset {
	seed := g.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	today := g.now().In(g.location)
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, g.location)

	dataset := make(domain.Dataset, len(g.stores))
	for _, store := range g.stores {
		records := make([]domain.SalesRecord, 0, g.days)
		for i := 0; i < g.days; i++ {
			records = append(records, generateRecord(rnd, midnight.AddDate(0, 0, -i)))
		}
		dataset[store] = records
	}

	return dataset
}

func generateRecord(rnd *rand.Rand, date time.Time) domain.SalesRecord {
	totalSales := math.Floor(rnd.Float64() * 7000)
	loyaltySales := math.Floor(totalSales * rnd.Float64() * 0.7)
	inStoreSales := math.Floor(totalSales * rnd.Float64() * 0.5)
	onlineSales := totalSales - inStoreSales
	totalOrders := rnd.Intn(1000)

	loyaltyAvgTicket := math.Floor(domain.TicketSize(totalSales, totalOrders))
	totalAvgTicket := math.Floor(loyaltyAvgTicket * (0.5 + rnd.Float64()*0.5))

	return domain.SalesRecord{
		Date:                      date.UnixMilli(),
		DisplayDate:               date.Format(displayDateLayout),
		AllCustomerSales:          totalSales,
		LoyaltyCustomerSales:      loyaltySales,
		InStoreSaleAmount:         inStoreSales,
		OnlineSaleAmount:          onlineSales,
		TotalAvgTicketAmount:      totalAvgTicket,
		LoyaltyCusAvgTicketAmount: loyaltyAvgTicket,
		TotalOrders:               totalOrders,
	}
}
