package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductType distinguishes the two kinds of commercial product.
type ProductType string

const (
	ProductTypeBox       ProductType = "CAIXA"
	ProductTypeProcessed ProductType = "PROCESSADO"
)

// MarginClass is the display classification of a published price.
type MarginClass string

const (
	MarginProfitable MarginClass = "lucrativo"
	MarginLow        MarginClass = "margem_baixa"
	MarginLoss       MarginClass = "prejuizo"
)

// PricingRecord is one published commercial price. Records are append-only: a
// new record deactivates the previous one for the same (base product, type),
// preserving the full price history.
type PricingRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BaseProduct    string             `bson:"produto_base" json:"produto_base"`
	Type           ProductType        `bson:"tipo" json:"tipo"`
	CommercialName string             `bson:"nome_comercial" json:"nome_comercial"`
	SalePricePerKG float64            `bson:"preco_venda_kg" json:"preco_venda_kg"`
	MarginPercent  *float64           `bson:"margem_percentual" json:"margem_percentual"`
	RealCostPerKG  float64            `bson:"custo_real_kg" json:"custo_real_kg"`
	AvgCostPerKG   float64            `bson:"custo_medio_ponderado_kg" json:"custo_medio_ponderado_kg"`
	AvgLossPercent float64            `bson:"perda_media_percentual" json:"perda_media_percentual"`
	StockKG        float64            `bson:"quantidade_estoque_kg" json:"quantidade_estoque_kg"`
	Active         bool               `bson:"ativo" json:"ativo"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// StockAnalysis summarizes the lots backing one commercial product.
type StockAnalysis struct {
	AvgCostPerKG   float64 `json:"custo_medio_ponderado_kg"`
	AvgLossPercent float64 `json:"perda_media_percentual"`
	RealCostPerKG  float64 `json:"custo_real_kg"`
	StockKG        float64 `json:"quantidade_estoque_kg"`
	LotCount       int     `json:"qtd_itens"`
}

// RealCostPerKG inflates the weighted-average cost by the historical loss
// percentage: cost / (1 - loss/100). A loss of 100% or more would divide by
// zero or flip the sign, so the average cost is returned unchanged.
func RealCostPerKG(avgCost, lossPercent float64) float64 {
	if lossPercent >= 100 {
		return Round2(avgCost)
	}
	factor := 1.0 - lossPercent/100.0
	if factor <= 0 {
		return Round2(avgCost)
	}
	return Round2(avgCost / factor)
}

// ClassifyMargin grades a sale price against the real cost per kg.
// Profitable at >= 20% margin, loss below cost, low margin in between.
func ClassifyMargin(realCostPerKG, salePricePerKG float64) MarginClass {
	if realCostPerKG <= 0 {
		if salePricePerKG > 0 {
			return MarginProfitable
		}
		return MarginLow
	}
	if salePricePerKG < realCostPerKG {
		return MarginLoss
	}
	margin := (salePricePerKG - realCostPerKG) / realCostPerKG * 100
	if margin >= 20 {
		return MarginProfitable
	}
	return MarginLow
}
