package periods

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

var saoPaulo = mustLoad("America/Sao_Paulo")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func datePtr(year int, month time.Month, day int, loc *time.Location) *time.Time {
	d := time.Date(year, month, day, 15, 30, 0, 0, loc)
	return &d
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		kind      domain.RangeKind
		filters   *domain.InsigthFilters
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "Mês anterior no meio do ano",
			now:       time.Date(2025, time.February, 10, 9, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastMonth,
			wantStart: time.Date(2025, time.January, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2025, time.January, 31, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name:      "Mês anterior em janeiro cai em dezembro do ano anterior",
			now:       time.Date(2025, time.January, 5, 0, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastMonth,
			wantStart: time.Date(2024, time.December, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name:      "Mês anterior em março respeita fevereiro bissexto",
			now:       time.Date(2024, time.March, 31, 23, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastMonth,
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name:      "Trimestre anterior no Q3",
			now:       time.Date(2025, time.August, 20, 0, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastQuarter,
			wantStart: time.Date(2025, time.April, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2025, time.June, 30, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name:      "Trimestre anterior no Q1 cai no Q4 do ano anterior",
			now:       time.Date(2025, time.March, 31, 12, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastQuarter,
			wantStart: time.Date(2024, time.October, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name:      "Trimestre anterior no primeiro dia do Q4",
			now:       time.Date(2025, time.October, 1, 0, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastQuarter,
			wantStart: time.Date(2025, time.July, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2025, time.September, 30, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name:      "Ano anterior",
			now:       time.Date(2025, time.June, 15, 0, 0, 0, 0, saoPaulo),
			kind:      domain.RangeLastYear,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name: "Período customizado normaliza início e fim do dia",
			now:  time.Date(2025, time.June, 15, 0, 0, 0, 0, saoPaulo),
			kind: domain.RangeCustom,
			filters: &domain.InsigthFilters{
				StartDate: datePtr(2023, time.June, 8, saoPaulo),
				EndDate:   datePtr(2023, time.June, 14, saoPaulo),
			},
			wantStart: time.Date(2023, time.June, 8, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2023, time.June, 14, 23, 59, 59, 999000000, saoPaulo),
		},
		{
			name: "Período customizado de um único dia",
			now:  time.Date(2025, time.June, 15, 0, 0, 0, 0, saoPaulo),
			kind: domain.RangeCustom,
			filters: &domain.InsigthFilters{
				StartDate: datePtr(2025, time.May, 1, saoPaulo),
				EndDate:   datePtr(2025, time.May, 1, saoPaulo),
			},
			wantStart: time.Date(2025, time.May, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2025, time.May, 1, 23, 59, 59, 999000000, saoPaulo),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(saoPaulo, fixedClock(tt.now))

			window := r.Resolve(tt.kind, tt.filters)
			require.NotNil(t, window)

			assert.Equal(t, tt.wantStart.UnixMilli(), window.StartTimestamp)
			assert.Equal(t, tt.wantEnd.UnixMilli(), window.EndTimestamp)
			assert.LessOrEqual(t, window.StartTimestamp, window.EndTimestamp)
		})
	}
}

func TestResolver_ResolveWithoutWindow(t *testing.T) {
	now := time.Date(2025, time.February, 10, 0, 0, 0, 0, saoPaulo)
	r := NewResolver(saoPaulo, fixedClock(now))

	tests := []struct {
		name    string
		kind    domain.RangeKind
		filters *domain.InsigthFilters
	}{
		{name: "Customizado sem filtros", kind: domain.RangeCustom},
		{name: "Customizado apenas com início", kind: domain.RangeCustom, filters: &domain.InsigthFilters{StartDate: datePtr(2025, time.January, 1, saoPaulo)}},
		{name: "Customizado apenas com fim", kind: domain.RangeCustom, filters: &domain.InsigthFilters{EndDate: datePtr(2025, time.January, 1, saoPaulo)}},
		{
			name: "Customizado com início após o fim",
			kind: domain.RangeCustom,
			filters: &domain.InsigthFilters{
				StartDate: datePtr(2025, time.January, 10, saoPaulo),
				EndDate:   datePtr(2025, time.January, 9, saoPaulo),
			},
		},
		{name: "Período desconhecido", kind: domain.RangeKind("lastWeek")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, r.Resolve(tt.kind, tt.filters))
		})
	}
}

func TestResolver_BoundariesAreDayAligned(t *testing.T) {
	// Percorre um ano inteiro garantindo o alinhamento em todos os meses
	start := time.Date(2024, time.January, 1, 13, 0, 0, 0, saoPaulo)
	for day := 0; day < 366; day += 7 {
		now := start.AddDate(0, 0, day)
		r := NewResolver(saoPaulo, fixedClock(now))

		for _, kind := range []domain.RangeKind{domain.RangeLastMonth, domain.RangeLastQuarter, domain.RangeLastYear} {
			window := r.Resolve(kind, nil)
			require.NotNil(t, window, "%s em %s", kind, now)

			s := window.Start(saoPaulo)
			e := window.End(saoPaulo)
			assert.Equal(t, 1, s.Day())
			assert.Equal(t, 0, s.Hour()+s.Minute()+s.Second()+s.Nanosecond())
			assert.Equal(t, 23, e.Hour())
			assert.Equal(t, 59, e.Minute())
			assert.Equal(t, 59, e.Second())
			assert.Equal(t, 999000000, e.Nanosecond())
			assert.Equal(t, 1, e.AddDate(0, 0, 1).Day(), "fim deve ser o último dia do mês")
			assert.True(t, e.Before(now), "janela deve terminar antes de hoje")
		}
	}
}

func TestResolver_Describe(t *testing.T) {
	r := NewResolver(saoPaulo)

	assert.Equal(t, "Last Month", r.Describe(domain.RangeLastMonth, nil))
	assert.Equal(t, "Last Quarter", r.Describe(domain.RangeLastQuarter, nil))
	assert.Equal(t, "Last Year", r.Describe(domain.RangeLastYear, nil))
	assert.Equal(t, "", r.Describe(domain.RangeCustom, &domain.InsigthFilters{StartDate: datePtr(2023, time.June, 8, saoPaulo)}))
	assert.Equal(t, "Looking at period of June 8 - June 14", r.Describe(domain.RangeCustom, &domain.InsigthFilters{
		StartDate: datePtr(2023, time.June, 8, saoPaulo),
		EndDate:   datePtr(2023, time.June, 14, saoPaulo),
	}))
	assert.Equal(t, "", r.Describe(domain.RangeCustom, &domain.InsigthFilters{
		StartDate: datePtr(2023, time.June, 14, saoPaulo),
		EndDate:   datePtr(2023, time.June, 8, saoPaulo),
	}), "período invertido não tem descrição")
}

func TestMustLoad_KnownZone(t *testing.T) {
	assert.Equal(t, "America/Sao_Paulo", saoPaulo.String())
}

func TestResolver_Options(t *testing.T) {
	options := NewResolver(nil).Options()

	assert.Equal(t, []domain.RangeOption{
		{Name: "Last Month", Value: domain.RangeLastMonth},
		{Name: "Last Quarter", Value: domain.RangeLastQuarter},
		{Name: "Last Year", Value: domain.RangeLastYear},
		{Name: "Custom", Value: domain.RangeCustom},
	}, options)
}
