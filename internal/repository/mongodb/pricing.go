package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// PricingRepository persists the append-only pricing history.
type PricingRepository struct {
	coll *mongo.Collection
}

// NewPricingRepository builds a PricingRepository.
func NewPricingRepository(db *mongo.Database) *PricingRepository {
	return &PricingRepository{coll: db.Collection(collPricing)}
}

// DeactivateFor marks every record of (base product, type) inactive. Prior
// records are never deleted or overwritten.
func (r *PricingRepository) DeactivateFor(ctx context.Context, baseProduct string, productType models.ProductType) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"produto_base": baseProduct, "tipo": productType},
		bson.M{"$set": bson.M{"ativo": false}},
	)
	if err != nil {
		return fmt.Errorf("deactivate pricing records: %w", err)
	}
	return nil
}

// Insert stores a new pricing record.
func (r *PricingRepository) Insert(ctx context.Context, record *models.PricingRecord) error {
	res, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("insert pricing record: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}
	return nil
}

// ActiveFor returns the active record for (base product, type), or nil.
func (r *PricingRepository) ActiveFor(ctx context.Context, baseProduct string, productType models.ProductType) (*models.PricingRecord, error) {
	var record models.PricingRecord
	err := r.coll.FindOne(ctx, bson.M{
		"produto_base": baseProduct,
		"tipo":         productType,
		"ativo":        true,
	}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active pricing record: %w", err)
	}
	return &record, nil
}

// ListActive returns all active records sorted by type then commercial name,
// the shape consumed by the price-table export.
func (r *PricingRepository) ListActive(ctx context.Context) ([]models.PricingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "tipo", Value: 1}, {Key: "nome_comercial", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ativo": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list active pricing records: %w", err)
	}
	var records []models.PricingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode pricing records: %w", err)
	}
	return records, nil
}
