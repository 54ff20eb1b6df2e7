package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoxStatus enumerates the lifecycle states of a purchased box.
type BoxStatus string

const (
	BoxStatusInStock  BoxStatus = "EM_ESTOQUE"
	BoxStatusFinished BoxStatus = "FINALIZADA"
	BoxStatusSold     BoxStatus = "VENDIDA"
)

// Box is a discrete purchased lot of raw product. Weight is reduced by
// processing; the box is never deleted, only moved through its statuses.
type Box struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntryID       primitive.ObjectID `bson:"entrada_id,omitempty" json:"entrada_id"`
	SupplierID    primitive.ObjectID `bson:"fornecedor_id,omitempty" json:"fornecedor_id"`
	BaseProduct   string             `bson:"produto_base" json:"produto_base"`
	Code          string             `bson:"codigo_caixa" json:"codigo_caixa"`
	InitialKG     float64            `bson:"peso_inicial_kg" json:"peso_inicial_kg"`
	CurrentKG     float64            `bson:"peso_atual_kg" json:"peso_atual_kg"`
	TotalCost     float64            `bson:"valor_total_caixa" json:"valor_total_caixa"`
	CostPerKG     float64            `bson:"valor_kg" json:"valor_kg"`
	Status        BoxStatus          `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`

	// Enrichment fields populated on reads, never persisted.
	SupplierName  string     `bson:"-" json:"nome_fornecedor,omitempty"`
	EntryDate     *time.Time `bson:"-" json:"data_entrada,omitempty"`
	InvoiceNumber string     `bson:"-" json:"nf_numero,omitempty"`
}

// BoxFilter narrows box listings. Empty fields are ignored; BaseProduct and
// Code match as case-insensitive substrings.
type BoxFilter struct {
	BaseProduct string
	Code        string
	SupplierID  string
	Status      BoxStatus
}
