package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// BreadCustomerRepository persists bakery customers.
type BreadCustomerRepository struct {
	coll *mongo.Collection
}

// NewBreadCustomerRepository builds a BreadCustomerRepository.
func NewBreadCustomerRepository(db *mongo.Database) *BreadCustomerRepository {
	return &BreadCustomerRepository{coll: db.Collection(collCustomers)}
}

// Insert stores a new customer.
func (r *BreadCustomerRepository) Insert(ctx context.Context, customer *models.BreadCustomer) error {
	res, err := r.coll.InsertOne(ctx, customer)
	if err != nil {
		return fmt.Errorf("insert bread customer: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		customer.ID = id
	}
	return nil
}

// ListActive returns active customers ordered by name.
func (r *BreadCustomerRepository) ListActive(ctx context.Context) ([]models.BreadCustomer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ativo": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list bread customers: %w", err)
	}
	var customers []models.BreadCustomer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode bread customers: %w", err)
	}
	return customers, nil
}

// GetByID returns a customer or nil when the id does not resolve.
func (r *BreadCustomerRepository) GetByID(ctx context.Context, id string) (*models.BreadCustomer, error) {
	customerID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	return r.GetByObjectID(ctx, customerID)
}

// GetByObjectID returns a customer by native id or nil.
func (r *BreadCustomerRepository) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.BreadCustomer, error) {
	var customer models.BreadCustomer
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find bread customer: %w", err)
	}
	return &customer, nil
}

// Update rewrites a customer's editable fields, bumping updated_at.
func (r *BreadCustomerRepository) Update(ctx context.Context, id primitive.ObjectID, customer models.BreadCustomer) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"nome":        customer.Name,
		"telefone":    customer.Phone,
		"endereco":    customer.Address,
		"observacoes": customer.Notes,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update bread customer: %w", err)
	}
	return nil
}

// PlanRepository persists subscription plans.
type PlanRepository struct {
	coll *mongo.Collection
}

// NewPlanRepository builds a PlanRepository.
func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{coll: db.Collection(collPlans)}
}

// Insert stores a new plan.
func (r *PlanRepository) Insert(ctx context.Context, plan *models.SubscriptionPlan) error {
	res, err := r.coll.InsertOne(ctx, plan)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		plan.ID = id
	}
	return nil
}

// List returns all plans, newest first.
func (r *PlanRepository) List(ctx context.Context) ([]models.SubscriptionPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var plans []models.SubscriptionPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return plans, nil
}

// ListActive returns the plans both generators iterate over.
func (r *PlanRepository) ListActive(ctx context.Context) ([]models.SubscriptionPlan, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.PlanActive})
	if err != nil {
		return nil, fmt.Errorf("list active plans: %w", err)
	}
	var plans []models.SubscriptionPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return plans, nil
}

// GetByID returns a plan or nil when the id does not resolve.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	planID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var plan models.SubscriptionPlan
	err := r.coll.FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return &plan, nil
}

// Update rewrites a plan's editable fields and its recomputed total.
func (r *PlanRepository) Update(ctx context.Context, id primitive.ObjectID, plan models.SubscriptionPlan) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"dias_entrega":            plan.Weekdays,
		"quantidade_paes_por_dia": plan.QuantityPerDay,
		"valor_por_pao":           plan.UnitPrice,
		"valor_total_plano":       plan.TotalValue,
		"data_pagamento":          plan.PaymentDue,
		"updated_at":              time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// Cancel soft-cancels a plan. Returns false when no document was modified.
func (r *PlanRepository) Cancel(ctx context.Context, id string) (bool, error) {
	planID, ok := oid(id)
	if !ok {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": planID}, bson.M{"$set": bson.M{
		"status":     models.PlanCancelled,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return false, fmt.Errorf("cancel plan: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
