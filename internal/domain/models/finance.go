package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayableTitle is an obligation owed to a supplier, created automatically when
// a stock entry is registered. PENDENTE -> PAGO is the only transition.
type PayableTitle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntryID     primitive.ObjectID `bson:"entrada_id,omitempty" json:"entrada_id"`
	Amount      float64            `bson:"valor" json:"valor"`
	Status      PaymentStatus      `bson:"status" json:"status"`
	DueDate     *time.Time         `bson:"data_vencimento" json:"data_vencimento"`
	PaymentDate *time.Time         `bson:"data_pagamento" json:"data_pagamento"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`

	SupplierName  string     `bson:"-" json:"nome_fornecedor,omitempty"`
	EntryDate     *time.Time `bson:"-" json:"data_entrada,omitempty"`
	InvoiceNumber string     `bson:"-" json:"nf_numero,omitempty"`
}

// MonthlyTotal is one month's aggregated paid amount, for dashboards.
type MonthlyTotal struct {
	Label string  `json:"data"`
	Total float64 `json:"valor"`
}

// OperationSettings is the singleton operational configuration document.
type OperationSettings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DefaultSplit *ProfitSplit       `bson:"divisao_lucro_padrao,omitempty" json:"divisao_lucro_padrao,omitempty"`
}
