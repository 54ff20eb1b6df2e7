package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OriginBoxLine records how much weight a processing run consumed from one box.
type OriginBoxLine struct {
	BoxID       string  `bson:"caixa_id" json:"caixa_id"`
	BaseProduct string  `bson:"produto_base" json:"produto_base"`
	UsedKG      float64 `bson:"peso_utilizado_kg" json:"peso_utilizado_kg"`
}

// ProducedLine records one product generated by a processing run.
type ProducedLine struct {
	Product string  `bson:"produto" json:"produto"`
	KG      float64 `bson:"peso_kg" json:"peso_kg"`
}

// ProcessingLoss is the weight discarded by a run, absolute and relative to origin.
type ProcessingLoss struct {
	KG      float64 `bson:"peso_kg" json:"peso_kg"`
	Percent float64 `bson:"percentual" json:"percentual"`
}

// ProcessingRun is an immutable record of a cut/processing operation.
// Invariant: TotalOriginKG == sum(Produced.KG) + Loss.KG within MassEpsilon.
type ProcessingRun struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date          time.Time          `bson:"data_processamento" json:"data_processamento"`
	OriginBoxes   []OriginBoxLine    `bson:"caixas_origem" json:"caixas_origem"`
	TotalOriginKG float64            `bson:"peso_total_origem" json:"peso_total_origem"`
	Produced      []ProducedLine     `bson:"produtos_gerados" json:"produtos_gerados"`
	Loss          ProcessingLoss     `bson:"perda" json:"perda"`
	Notes         string             `bson:"observacoes" json:"observacoes"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// ProfitSplit is a percentage allocation of sale profit between the two parties.
type ProfitSplit struct {
	ClientPercent  int `bson:"cliente_percentual" json:"cliente_percentual"`
	PartnerPercent int `bson:"socio_percentual" json:"socio_percentual"`
}

// DefaultProfitSplit is used when neither sale, product nor settings define one.
func DefaultProfitSplit() ProfitSplit {
	return ProfitSplit{ClientPercent: 70, PartnerPercent: 30}
}

// DerivedProduct is an output lot from processing, carrying the cost allocated
// to it by mass. Cost fields are immutable; AvailableKG only decreases.
type DerivedProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product     string             `bson:"produto" json:"produto"`
	AvailableKG float64            `bson:"peso_disponivel_kg" json:"peso_disponivel_kg"`
	TotalCost   float64            `bson:"custo_total" json:"custo_total"`
	CostPerKG   float64            `bson:"custo_kg" json:"custo_kg"`
	Split       *ProfitSplit       `bson:"divisao_lucro,omitempty" json:"divisao_lucro,omitempty"`
	OriginRunID primitive.ObjectID `bson:"origem_processamento_id,omitempty" json:"origem_processamento_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
