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

// PayableRepository persists supplier obligation titles.
type PayableRepository struct {
	coll *mongo.Collection
}

// NewPayableRepository builds a PayableRepository.
func NewPayableRepository(db *mongo.Database) *PayableRepository {
	return &PayableRepository{coll: db.Collection(collPayables)}
}

// Insert stores a new payable title.
func (r *PayableRepository) Insert(ctx context.Context, title *models.PayableTitle) error {
	res, err := r.coll.InsertOne(ctx, title)
	if err != nil {
		return fmt.Errorf("insert payable: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		title.ID = id
	}
	return nil
}

// ListPending returns pending titles, due date ascending then creation order.
func (r *PayableRepository) ListPending(ctx context.Context) ([]models.PayableTitle, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "data_vencimento", Value: 1},
		{Key: "created_at", Value: 1},
	})
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.PaymentPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending payables: %w", err)
	}
	var titles []models.PayableTitle
	if err := cursor.All(ctx, &titles); err != nil {
		return nil, fmt.Errorf("decode payables: %w", err)
	}
	return titles, nil
}

// ListPaid returns up to limit paid titles, newest payment first.
func (r *PayableRepository) ListPaid(ctx context.Context, limit int64) ([]models.PayableTitle, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "data_pagamento", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.PaymentPaid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list paid payables: %w", err)
	}
	var titles []models.PayableTitle
	if err := cursor.All(ctx, &titles); err != nil {
		return nil, fmt.Errorf("decode payables: %w", err)
	}
	return titles, nil
}

// GetByID returns a title or nil when the id does not resolve.
func (r *PayableRepository) GetByID(ctx context.Context, id string) (*models.PayableTitle, error) {
	titleID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var title models.PayableTitle
	err := r.coll.FindOne(ctx, bson.M{"_id": titleID}).Decode(&title)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payable: %w", err)
	}
	return &title, nil
}

// RegisterPayment flips PENDENTE to PAGO, recording the payment date.
// Returns false when the title is missing or already paid.
func (r *PayableRepository) RegisterPayment(ctx context.Context, id string, paymentDate time.Time) (bool, error) {
	titleID, ok := oid(id)
	if !ok {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": titleID, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status":         models.PaymentPaid,
			"data_pagamento": models.DateOnly(paymentDate),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("register payable payment: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// PaidTotalBetween sums the amounts of titles paid within [from, to].
func (r *PayableRepository) PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error) {
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
		return 0, fmt.Errorf("sum paid payables: %w", err)
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode payable sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return models.Round2(results[0].Total), nil
}

// PaidByDay groups paid amounts by day of month within [from, to].
func (r *PayableRepository) PaidByDay(ctx context.Context, from, to time.Time) (map[int]float64, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":         models.PaymentPaid,
			"data_pagamento": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dayOfMonth": "$data_pagamento"},
			"total": bson.M{"$sum": "$valor"},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("group paid payables by day: %w", err)
	}
	var results []struct {
		Day   int     `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode payable day groups: %w", err)
	}
	out := make(map[int]float64, len(results))
	for _, row := range results {
		out[row.Day] = row.Total
	}
	return out, nil
}

// PaidByMonth groups paid amounts by (year, month) within [from, to].
func (r *PayableRepository) PaidByMonth(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":         models.PaymentPaid,
			"data_pagamento": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$data_pagamento"},
				"month": bson.M{"$month": "$data_pagamento"},
			},
			"total": bson.M{"$sum": "$valor"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id.year": 1, "_id.month": 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("group paid payables by month: %w", err)
	}
	var results []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode payable month groups: %w", err)
	}
	out := make([]models.MonthlyTotal, 0, len(results))
	for _, row := range results {
		out = append(out, models.MonthlyTotal{
			Label: fmt.Sprintf("%02d/%d", row.ID.Month, row.ID.Year),
			Total: models.Round2(row.Total),
		})
	}
	return out, nil
}

// SettingsRepository persists the singleton operational configuration.
type SettingsRepository struct {
	coll *mongo.Collection
}

// NewSettingsRepository builds a SettingsRepository.
func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{coll: db.Collection(collSettings)}
}

// DefaultSplit returns the configured default profit split, falling back to
// 70/30 when no settings document exists.
func (r *SettingsRepository) DefaultSplit(ctx context.Context) (models.ProfitSplit, error) {
	var settings models.OperationSettings
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.DefaultProfitSplit(), nil
	}
	if err != nil {
		return models.ProfitSplit{}, fmt.Errorf("find settings: %w", err)
	}
	if settings.DefaultSplit == nil {
		return models.DefaultProfitSplit(), nil
	}
	return *settings.DefaultSplit, nil
}

// SaveDefaultSplit upserts the default profit split on the singleton document.
func (r *SettingsRepository) SaveDefaultSplit(ctx context.Context, split models.ProfitSplit) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, bson.M{},
		bson.M{"$set": bson.M{"divisao_lucro_padrao": split}}, opts)
	if err != nil {
		return fmt.Errorf("save default split: %w", err)
	}
	return nil
}
