package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return math.Round(f*100) / 100
}

// SumWithTwoDecimalPlace soma valores monetários sem acumular erro de ponto flutuante
func SumWithTwoDecimalPlace(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}

	return total.Round(2).InexactFloat64()
}

// MeanWithTwoDecimalPlace retorna a média arredondada. Lista vazia retorna zero.
func MeanWithTwoDecimalPlace(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	total := decimal.Zero
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}

	return total.Div(decimal.NewFromInt(int64(len(values)))).Round(2).InexactFloat64()
}
