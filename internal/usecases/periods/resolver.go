package periods

import (
	"fmt"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/domain"
)

// Resolver converte um período simbólico em uma janela concreta de datas
type Resolver interface {
	// Resolve retorna a janela do período ou nil quando não há consulta a fazer
	Resolve(kind domain.RangeKind, filters *domain.InsigthFilters) *domain.RangeWindow

	// Describe retorna o texto exibido para o período selecionado
	Describe(kind domain.RangeKind, filters *domain.InsigthFilters) string

	// Options lista os períodos disponíveis no seletor
	Options() []domain.RangeOption

	Location() *time.Location
}

type resolver struct {
	now      func() time.Time
	location *time.Location
}

type Option func(*resolver)

// WithClock substitui o relógio usado como referência de "hoje"
func WithClock(now func() time.Time) Option {
	return func(r *resolver) {
		r.now = now
	}
}

func NewResolver(location *time.Location, opts ...Option) Resolver {
	if location == nil {
		location = time.Local
	}

	r := &resolver{
		now:      time.Now,
		location: location,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *resolver) Location() *time.Location {
	return r.location
}

func (r *resolver) Resolve(kind domain.RangeKind, filters *domain.InsigthFilters) *domain.RangeWindow {
	today := r.now().In(r.location)

	switch kind {
	case domain.RangeLastMonth:
		start := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, r.location)
		return window(start, start.AddDate(0, 1, -1))

	case domain.RangeLastQuarter:
		currentQuarterStart := time.Month((int(today.Month())-1)/3*3 + 1)
		start := time.Date(today.Year(), currentQuarterStart-3, 1, 0, 0, 0, 0, r.location)
		return window(start, start.AddDate(0, 3, -1))

	case domain.RangeLastYear:
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, r.location)
		end := time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, r.location)
		return window(start, end)

	case domain.RangeCustom:
		if !filters.Complete() {
			return nil
		}

		start := startOfDay(filters.StartDate.In(r.location))
		end := startOfDay(filters.EndDate.In(r.location))
		if start.After(end) {
			return nil
		}
		return window(start, end)
	}

	return nil
}

func (r *resolver) Describe(kind domain.RangeKind, filters *domain.InsigthFilters) string {
	if kind != domain.RangeCustom {
		return kind.DisplayName()
	}

	// Sem janela não há período para descrever
	if r.Resolve(kind, filters) == nil {
		return ""
	}

	return fmt.Sprintf("Looking at period of %s - %s",
		filters.StartDate.In(r.location).Format("January 2"),
		filters.EndDate.In(r.location).Format("January 2"),
	)
}

func (r *resolver) Options() []domain.RangeOption {
	options := make([]domain.RangeOption, 0, len(domain.RangeKinds))
	for _, kind := range domain.RangeKinds {
		options = append(options, domain.RangeOption{Name: kind.DisplayName(), Value: kind})
	}
	return options
}

// window monta a janela [início do primeiro dia, último milissegundo do último dia]
func window(firstDay, lastDay time.Time) *domain.RangeWindow {
	return &domain.RangeWindow{
		StartTimestamp: startOfDay(firstDay).UnixMilli(),
		EndTimestamp:   endOfDay(lastDay).UnixMilli(),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
