package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleKind distinguishes own sales from partnership sales.
type SaleKind string

const (
	SaleKindOwn         SaleKind = "PROPRIA"
	SaleKindPartnership SaleKind = "PARCERIA"
)

// SaleSummary aggregates a sale's financial totals.
// Invariant: Profit == Revenue - Cost (2-decimal rounded).
type SaleSummary struct {
	Revenue float64 `bson:"valor_total_venda" json:"valor_total_venda"`
	Cost    float64 `bson:"custo_total" json:"custo_total"`
	Profit  float64 `bson:"lucro_total" json:"lucro_total"`
}

// SaleSplit records the profit split applied to one sale, with the absolute
// amounts rounded independently (they may miss the profit by a cent).
type SaleSplit struct {
	ClientPercent  int     `bson:"cliente_percentual" json:"cliente_percentual"`
	PartnerPercent int     `bson:"socio_percentual" json:"socio_percentual"`
	ClientAmount   float64 `bson:"lucro_cliente" json:"lucro_cliente"`
	PartnerAmount  float64 `bson:"lucro_socio" json:"lucro_socio"`
}

// SplitProfit applies a percentage split to a profit amount.
func SplitProfit(profit float64, split ProfitSplit) SaleSplit {
	return SaleSplit{
		ClientPercent:  split.ClientPercent,
		PartnerPercent: split.PartnerPercent,
		ClientAmount:   Round2(profit * float64(split.ClientPercent) / 100),
		PartnerAmount:  Round2(profit * float64(split.PartnerPercent) / 100),
	}
}

// BoxSaleItem is one whole box sold within a box sale.
type BoxSaleItem struct {
	BoxID          string  `bson:"caixa_id" json:"caixa_id"`
	BoxCode        string  `bson:"codigo_caixa" json:"codigo_caixa"`
	BaseProduct    string  `bson:"produto_base" json:"produto_base"`
	KG             float64 `bson:"peso_kg" json:"peso_kg"`
	CostPerKG      float64 `bson:"custo_kg" json:"custo_kg"`
	SalePricePerKG float64 `bson:"valor_venda_kg" json:"valor_venda_kg"`
	ItemCost       float64 `bson:"custo_total_item" json:"custo_total_item"`
	ItemRevenue    float64 `bson:"valor_venda_item" json:"valor_venda_item"`
	ItemProfit     float64 `bson:"lucro_item" json:"lucro_item"`
}

// BoxSale records the sale of one or more whole boxes.
type BoxSale struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time          `bson:"data_venda" json:"data_venda"`
	Kind      SaleKind           `bson:"tipo_venda" json:"tipo_venda"`
	Items     []BoxSaleItem      `bson:"itens" json:"itens"`
	Summary   SaleSummary        `bson:"resumo_financeiro" json:"resumo_financeiro"`
	Split     SaleSplit          `bson:"divisao_lucro" json:"divisao_lucro"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// DerivedSaleItem is a quantity of one derived product sold by weight.
type DerivedSaleItem struct {
	ProductID      string  `bson:"produto_id" json:"produto_id"`
	Product        string  `bson:"produto" json:"produto"`
	KG             float64 `bson:"peso_vendido_kg" json:"peso_vendido_kg"`
	SalePricePerKG float64 `bson:"preco_venda_kg" json:"preco_venda_kg"`
	ItemRevenue    float64 `bson:"valor_total_venda" json:"valor_total_venda"`
	ItemCost       float64 `bson:"custo_total_item" json:"custo_total_item"`
	ItemProfit     float64 `bson:"lucro_item" json:"lucro_item"`
}

// DerivedSale records the sale of derived-product weight.
type DerivedSale struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time          `bson:"data_venda" json:"data_venda"`
	Kind      SaleKind           `bson:"tipo_venda" json:"tipo_venda"`
	Items     []DerivedSaleItem  `bson:"itens" json:"itens"`
	Summary   SaleSummary        `bson:"resumo_financeiro" json:"resumo_financeiro"`
	Split     SaleSplit          `bson:"divisao_lucro" json:"divisao_lucro"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
