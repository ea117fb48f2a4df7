package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "Zero", in: 0, want: 0},
		{name: "Arredonda para cima", in: 10.456, want: 10.46},
		{name: "Arredonda para baixo", in: 10.454, want: 10.45},
		{name: "Negativo", in: -3.337, want: -3.34},
		{name: "NaN vira zero", in: math.NaN(), want: 0},
		{name: "Infinito vira zero", in: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundWithTwoDecimalPlace(tt.in))
		})
	}
}

func TestSumWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, SumWithTwoDecimalPlace(nil))
	assert.Equal(t, 0.3, SumWithTwoDecimalPlace([]float64{0.1, 0.2}))
	assert.Equal(t, 100.0, SumWithTwoDecimalPlace([]float64{40, 60}))
	assert.Equal(t, 5.5, SumWithTwoDecimalPlace([]float64{5.5, math.NaN()}))
}

func TestMeanWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, MeanWithTwoDecimalPlace(nil))
	assert.Equal(t, 50.0, MeanWithTwoDecimalPlace([]float64{40, 60}))
	assert.Equal(t, 3.33, MeanWithTwoDecimalPlace([]float64{10, 0, 0}))
}
