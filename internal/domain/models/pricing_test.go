package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealCostPerKG(t *testing.T) {
	tests := []struct {
		name        string
		avgCost     float64
		lossPercent float64
		want        float64
	}{
		{"no loss", 3.0, 0, 3.0},
		{"quarter loss", 3.0, 25, 4.0},
		{"half loss", 2.0, 50, 4.0},
		{"full loss returns avg", 3.0, 100, 3.0},
		{"above full loss returns avg", 3.0, 120, 3.0},
		{"zero cost", 0, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RealCostPerKG(tt.avgCost, tt.lossPercent))
		})
	}
}

func TestClassifyMargin(t *testing.T) {
	tests := []struct {
		name  string
		cost  float64
		price float64
		want  MarginClass
	}{
		{"below cost", 4.0, 3.0, MarginLoss},
		{"twenty five percent", 4.0, 5.0, MarginProfitable},
		{"ten percent", 4.0, 4.4, MarginLow},
		{"exactly at cost", 4.0, 4.0, MarginLow},
		{"exactly twenty percent", 5.0, 6.0, MarginProfitable},
		{"free cost with price", 0, 1.0, MarginProfitable},
		{"free cost without price", 0, 0, MarginLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMargin(tt.cost, tt.price))
		})
	}
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 1.234, Round3(1.2344))
	assert.Equal(t, 1.235, Round3(1.2346))
}
