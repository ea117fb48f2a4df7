package domain

import (
	"math"
	"time"
)

// Identificadores das lojas presentes no feed de demonstração
const (
	PizzaStore  = "pizzaStore"
	Decathlon   = "decathlon"
	CanadaGoose = "canadaGoose"
)

// SalesRecord representa o total de vendas de uma loja em um dia do calendário
type SalesRecord struct {
	Date                      int64   `json:"date"` // epoch em milissegundos, meia-noite local
	DisplayDate               string  `json:"displayDate,omitempty"`
	AllCustomerSales          float64 `json:"allCustomerSales"`
	LoyaltyCustomerSales      float64 `json:"loyaltyCustomerSales"`
	InStoreSaleAmount         float64 `json:"inStoreSaleAmount"`
	OnlineSaleAmount          float64 `json:"onlineSaleAmount"`
	TotalAvgTicketAmount      float64 `json:"totalAvgTicketAmount"`
	LoyaltyCusAvgTicketAmount float64 `json:"loyaltyCusAvgTicketAmount"`
	TotalOrders               int     `json:"totalOrders"`
}

// Dataset é o documento do feed: registros diários indexados pelo identificador da loja
type Dataset map[string][]SalesRecord

// Time retorna a data do registro no fuso informado
func (r SalesRecord) Time(loc *time.Location) time.Time {
	return time.UnixMilli(r.Date).In(loc)
}

// TicketSize calcula o ticket médio (vendas / pedidos). Sem pedidos o ticket é zero.
func TicketSize(sales float64, orders int) float64 {
	if orders <= 0 {
		return 0
	}
	return sales / float64(orders)
}

// Normalize zera médias não finitas vindas do feed
func (r SalesRecord) Normalize() SalesRecord {
	r.TotalAvgTicketAmount = finiteOrZero(r.TotalAvgTicketAmount)
	r.LoyaltyCusAvgTicketAmount = finiteOrZero(r.LoyaltyCusAvgTicketAmount)
	return r
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Stores retorna os identificadores de lojas presentes no dataset
func (d Dataset) Stores() []string {
	stores := make([]string, 0, len(d))
	for id := range d {
		stores = append(stores, id)
	}
	return stores
}
