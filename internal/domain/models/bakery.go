package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType enumerates subscription billing cadences.
type PlanType string

const (
	PlanDaily   PlanType = "DIARIO"
	PlanWeekly  PlanType = "SEMANAL"
	PlanMonthly PlanType = "MENSAL"
)

// PlanStatus is the stored lifecycle state of a plan. Plans are soft-cancelled,
// never deleted.
type PlanStatus string

const (
	PlanActive    PlanStatus = "ATIVO"
	PlanOverdue   PlanStatus = "EM_ATRASO"
	PlanCancelled PlanStatus = "CANCELADO"
)

// weekdayCodes is indexed from Monday, matching time.Weekday shifted by one.
var weekdayCodes = [7]string{"SEG", "TER", "QUA", "QUI", "SEX", "SAB", "DOM"}

// WeekdayCode returns the business weekday code (SEG..DOM) for a date.
func WeekdayCode(d time.Time) string {
	// time.Weekday: Sunday=0 .. Saturday=6; our week starts on Monday.
	return weekdayCodes[(int(d.Weekday())+6)%7]
}

// WeekdayOffset returns the offset in days of a weekday code from Monday,
// or 0 if the code is unknown.
func WeekdayOffset(code string) int {
	for i, c := range weekdayCodes {
		if c == code {
			return i
		}
	}
	return 0
}

// ValidWeekdayCode reports whether code is one of SEG..DOM.
func ValidWeekdayCode(code string) bool {
	for _, c := range weekdayCodes {
		if c == code {
			return true
		}
	}
	return false
}

// BreadCustomer is a delivery-route customer of the bakery module.
type BreadCustomer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"nome" json:"nome"`
	Phone     string             `bson:"telefone" json:"telefone"`
	Address   string             `bson:"endereco" json:"endereco"`
	Notes     string             `bson:"observacoes" json:"observacoes"`
	Active    bool               `bson:"ativo" json:"ativo"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// SubscriptionPlan is a recurring bread-delivery agreement with a customer.
type SubscriptionPlan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID     primitive.ObjectID `bson:"cliente_id,omitempty" json:"cliente_id"`
	Type           PlanType           `bson:"tipo_plano" json:"tipo_plano"`
	Weekdays       []string           `bson:"dias_entrega" json:"dias_entrega"`
	DeliveryTime   string             `bson:"horario_entrega" json:"horario_entrega"`
	QuantityPerDay int                `bson:"quantidade_paes_por_dia" json:"quantidade_paes_por_dia"`
	UnitPrice      float64            `bson:"valor_por_pao" json:"valor_por_pao"`
	TotalValue     float64            `bson:"valor_total_plano" json:"valor_total_plano"`
	PaymentDue     time.Time          `bson:"data_pagamento" json:"data_pagamento"`
	PaymentStatus  PaymentStatus      `bson:"status_pagamento" json:"status_pagamento"`
	Status         PlanStatus         `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`

	CustomerName    string     `bson:"-" json:"nome_cliente,omitempty"`
	EffectiveStatus PlanStatus `bson:"-" json:"status_efetivo,omitempty"`
}

// PlanTotalValue computes the plan's billed value for one cycle.
//
// DIARIO bills per delivery day (cycle of 1), SEMANAL per configured weekday,
// MENSAL approximates a month as 4 weeks of configured weekdays. The monthly
// approximation is a deliberate simplification kept in this single place; it
// can disagree with the actual number of matching weekdays in a given month.
func PlanTotalValue(planType PlanType, weekdays []string, quantityPerDay int, unitPrice float64) float64 {
	qty := quantityPerDay
	if qty < 0 {
		qty = 0
	}
	price := unitPrice
	if price < 0 {
		price = 0
	}
	days := len(weekdays)
	var cycleDays int
	switch planType {
	case PlanDaily:
		cycleDays = 1
	case PlanWeekly:
		cycleDays = max(1, days)
	default: // MENSAL
		cycleDays = max(1, days) * 4
	}
	return Round2(float64(cycleDays) * float64(qty) * price)
}

// EffectivePlanStatus derives the status shown to operators. CANCELADO wins;
// a pending payment past its due date reads as EM_ATRASO. Recomputed on every
// read, never stored.
func EffectivePlanStatus(p SubscriptionPlan, today time.Time) PlanStatus {
	if p.Status == PlanCancelled {
		return PlanCancelled
	}
	if p.PaymentStatus == PaymentPending && !p.PaymentDue.IsZero() {
		due := DateOnly(p.PaymentDue)
		if due.Before(DateOnly(today)) {
			return PlanOverdue
		}
	}
	if p.Status == "" {
		return PlanActive
	}
	return p.Status
}

// DateOnly truncates a timestamp to UTC midnight. Date-only fields are always
// persisted in this form so they round-trip without time-zone drift.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DeliveryStatus tracks a scheduled delivery. PENDENTE -> ENTREGUE is the only
// transition.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDENTE"
	DeliveryDelivered DeliveryStatus = "ENTREGUE"
)

// DeliveryRecord is one scheduled bread delivery generated from a plan.
// At most one record exists per (plan, date).
type DeliveryRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID `bson:"plano_id,omitempty" json:"plano_id"`
	CustomerID  primitive.ObjectID `bson:"cliente_id,omitempty" json:"cliente_id"`
	Date        time.Time          `bson:"data_entrega" json:"data_entrega"`
	Weekday     string             `bson:"dia_semana" json:"dia_semana"`
	Time        string             `bson:"horario_entrega" json:"horario_entrega"`
	Quantity    int                `bson:"quantidade_paes" json:"quantidade_paes"`
	Status      DeliveryStatus     `bson:"status" json:"status"`
	ConfirmedAt *time.Time         `bson:"data_confirmacao" json:"data_confirmacao"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`

	CustomerName    string   `bson:"-" json:"nome_cliente,omitempty"`
	CustomerAddress string   `bson:"-" json:"endereco_cliente,omitempty"`
	PlanType        PlanType `bson:"-" json:"tipo_plano,omitempty"`
}

// ReceivableTitle is one billing title generated from a plan.
// At most one title exists per (plan, due date).
type ReceivableTitle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID        primitive.ObjectID `bson:"plano_id,omitempty" json:"plano_id"`
	CustomerID    primitive.ObjectID `bson:"cliente_id,omitempty" json:"cliente_id"`
	Amount        float64            `bson:"valor" json:"valor"`
	DueDate       time.Time          `bson:"data_vencimento" json:"data_vencimento"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	PaymentDate   *time.Time         `bson:"data_pagamento" json:"data_pagamento"`
	PaymentMethod string             `bson:"forma_pagamento" json:"forma_pagamento"`
	Notes         string             `bson:"observacoes" json:"observacoes"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`

	CustomerName string   `bson:"-" json:"nome_cliente,omitempty"`
	PlanType     PlanType `bson:"-" json:"tipo_plano,omitempty"`
	DaysOverdue  int      `bson:"-" json:"dias_atraso"`
}

// ProductionSummary aggregates a day's deliveries for the bakery: one bag per
// delivery, bag size = the delivery's bread quantity.
type ProductionSummary struct {
	Bags            map[int]int `json:"producao"`
	TotalBreads     int         `json:"total_paes"`
	TotalDeliveries int         `json:"total_entregas"`
}
