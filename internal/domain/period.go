package domain

import "time"

// RangeKind identifica o período de análise selecionado no dashboard
type RangeKind string

const (
	RangeLastMonth   RangeKind = "lastMonth"
	RangeLastQuarter RangeKind = "lastQuarter"
	RangeLastYear    RangeKind = "lastYear"
	RangeCustom      RangeKind = "custom"
)

var rangeNames = map[RangeKind]string{
	RangeLastMonth:   "Last Month",
	RangeLastQuarter: "Last Quarter",
	RangeLastYear:    "Last Year",
	RangeCustom:      "Custom",
}

// RangeKinds lista os períodos na ordem exibida no seletor
var RangeKinds = []RangeKind{RangeLastMonth, RangeLastQuarter, RangeLastYear, RangeCustom}

// Valid indica se o período é conhecido
func (k RangeKind) Valid() bool {
	_, ok := rangeNames[k]
	return ok
}

// DisplayName retorna o nome exibido no seletor de períodos
func (k RangeKind) DisplayName() string {
	return rangeNames[k]
}

// RangeOption é um item do seletor de períodos
type RangeOption struct {
	Name  string    `json:"name"`
	Value RangeKind `json:"value"`
}

// RangeWindow é o intervalo fechado [start, end] em epoch milissegundos
type RangeWindow struct {
	StartTimestamp int64 `json:"startTimestamp"`
	EndTimestamp   int64 `json:"endTimestamp"`
}

// Contains indica se o timestamp está dentro da janela (inclusive)
func (w RangeWindow) Contains(ts int64) bool {
	return ts >= w.StartTimestamp && ts <= w.EndTimestamp
}

// Start retorna o início da janela no fuso informado
func (w RangeWindow) Start(loc *time.Location) time.Time {
	return time.UnixMilli(w.StartTimestamp).In(loc)
}

// End retorna o fim da janela no fuso informado
func (w RangeWindow) End(loc *time.Location) time.Time {
	return time.UnixMilli(w.EndTimestamp).In(loc)
}

// InsigthFilters carrega os limites informados para o período customizado.
// Qualquer limite ausente significa "sem consulta".
type InsigthFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Complete indica se os dois limites foram informados
func (f *InsigthFilters) Complete() bool {
	return f != nil && f.StartDate != nil && f.EndDate != nil
}
