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

// ReceivableRepository persists generated receivable titles.
type ReceivableRepository struct {
	coll *mongo.Collection
}

// NewReceivableRepository builds a ReceivableRepository.
func NewReceivableRepository(db *mongo.Database) *ReceivableRepository {
	return &ReceivableRepository{coll: db.Collection(collReceivables)}
}

// Exists reports whether a title for (plan, due date) is already present.
func (r *ReceivableRepository) Exists(ctx context.Context, planID primitive.ObjectID, dueDate time.Time) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{
		"plano_id":        planID,
		"data_vencimento": models.DateOnly(dueDate),
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check receivable existence: %w", err)
	}
	return true, nil
}

// Insert stores a new receivable title.
func (r *ReceivableRepository) Insert(ctx context.Context, title *models.ReceivableTitle) error {
	res, err := r.coll.InsertOne(ctx, title)
	if err != nil {
		return fmt.Errorf("insert receivable: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		title.ID = id
	}
	return nil
}

// ListPending returns pending titles ordered by due date.
func (r *ReceivableRepository) ListPending(ctx context.Context) ([]models.ReceivableTitle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data_vencimento", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.PaymentPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending receivables: %w", err)
	}
	var titles []models.ReceivableTitle
	if err := cursor.All(ctx, &titles); err != nil {
		return nil, fmt.Errorf("decode receivables: %w", err)
	}
	return titles, nil
}

// ListPaidBetween returns titles paid within [from, to], newest payment first.
func (r *ReceivableRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]models.ReceivableTitle, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to).Add(24*time.Hour - time.Millisecond)
	opts := options.Find().SetSort(bson.D{{Key: "data_pagamento", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{
		"status":         models.PaymentPaid,
		"data_pagamento": bson.M{"$gte": start, "$lte": end},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("list paid receivables: %w", err)
	}
	var titles []models.ReceivableTitle
	if err := cursor.All(ctx, &titles); err != nil {
		return nil, fmt.Errorf("decode receivables: %w", err)
	}
	return titles, nil
}

// GetByID returns a title or nil when the id does not resolve.
func (r *ReceivableRepository) GetByID(ctx context.Context, id string) (*models.ReceivableTitle, error) {
	titleID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var title models.ReceivableTitle
	err := r.coll.FindOne(ctx, bson.M{"_id": titleID}).Decode(&title)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find receivable: %w", err)
	}
	return &title, nil
}

// RegisterPayment flips PENDENTE to PAGO recording date, method and notes.
// Guarded by the current-status filter; returns false when nothing changed.
func (r *ReceivableRepository) RegisterPayment(ctx context.Context, id string, paymentDate time.Time, method, notes string) (bool, error) {
	titleID, ok := oid(id)
	if !ok {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": titleID, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status":          models.PaymentPaid,
			"data_pagamento":  models.DateOnly(paymentDate),
			"forma_pagamento": method,
			"observacoes":     notes,
			"updated_at":      time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("register receivable payment: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// PaidTotalBetween sums the amounts of titles paid within [from, to].
func (r *ReceivableRepository) PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to).Add(24*time.Hour - time.Millisecond)
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":         models.PaymentPaid,
			"data_pagamento": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$valor"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("sum paid receivables: %w", err)
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode receivable sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return models.Round2(results[0].Total), nil
}
