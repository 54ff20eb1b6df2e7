package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus tracks whether a financial obligation has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDENTE"
	PaymentPaid    PaymentStatus = "PAGO"
)

// EntryFinancials holds the payment terms agreed with the supplier for one entry.
type EntryFinancials struct {
	TotalValue    float64       `bson:"valor_total" json:"valor_total"`
	PaymentDate   *time.Time    `bson:"data_pagamento" json:"data_pagamento"`
	PaymentStatus PaymentStatus `bson:"status_pagamento" json:"status_pagamento"`
	PaymentMethod string        `bson:"forma_pagamento" json:"forma_pagamento"`
	Installments  int           `bson:"parcelas" json:"parcelas"`
}

// EntryInvoice carries the fiscal document attached to an entry.
type EntryInvoice struct {
	Number string `bson:"numero" json:"numero"`
	File   string `bson:"arquivo" json:"arquivo"`
}

// EntryProductLine describes one purchased product within an entry. Each line
// fans out into QuantityBoxes Box documents on creation.
type EntryProductLine struct {
	BaseProduct   string  `bson:"produto_base" json:"produto_base"`
	QuantityBoxes int     `bson:"quantidade_caixas" json:"quantidade_caixas"`
	KGPerBox      float64 `bson:"peso_por_caixa_kg" json:"peso_por_caixa_kg"`
	LineTotal     float64 `bson:"valor_total_produto" json:"valor_total_produto"`
}

// StockEntry records a purchase of raw product from a supplier.
type StockEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SupplierID primitive.ObjectID `bson:"fornecedor_id,omitempty" json:"fornecedor_id"`
	EntryType  string             `bson:"tipo_entrada" json:"tipo_entrada"`
	EntryDate  time.Time          `bson:"data_entrada" json:"data_entrada"`
	Financials EntryFinancials    `bson:"financeiro" json:"financeiro"`
	Invoice    EntryInvoice       `bson:"nf_e" json:"nf_e"`
	Products   []EntryProductLine `bson:"produtos" json:"produtos"`
	Notes      string             `bson:"observacoes" json:"observacoes"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`

	SupplierName string `bson:"-" json:"nome_fornecedor,omitempty"`
	BoxCount     int64  `bson:"-" json:"qtd_caixas,omitempty"`
}

// Supplier is reference data for sourcing entries.
type Supplier struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"nome" json:"nome"`
	Phone     string             `bson:"telefone" json:"telefone"`
	Notes     string             `bson:"observacoes" json:"observacoes"`
	Active    bool               `bson:"ativo" json:"ativo"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
