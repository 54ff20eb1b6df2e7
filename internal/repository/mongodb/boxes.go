package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// BoxRepository persists Box documents.
type BoxRepository struct {
	coll *mongo.Collection
}

// NewBoxRepository builds a BoxRepository over the boxes collection.
func NewBoxRepository(db *mongo.Database) *BoxRepository {
	return &BoxRepository{coll: db.Collection(collBoxes)}
}

// Insert stores a new box and fills in its generated id.
func (r *BoxRepository) Insert(ctx context.Context, box *models.Box) error {
	res, err := r.coll.InsertOne(ctx, box)
	if err != nil {
		return fmt.Errorf("insert box: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		box.ID = id
	}
	return nil
}

// List returns boxes matching the filter, newest first.
func (r *BoxRepository) List(ctx context.Context, filter models.BoxFilter) ([]models.Box, error) {
	match := bson.M{}
	if filter.BaseProduct != "" {
		match["produto_base"] = bson.M{"$regex": filter.BaseProduct, "$options": "i"}
	}
	if filter.Code != "" {
		match["codigo_caixa"] = bson.M{"$regex": filter.Code, "$options": "i"}
	}
	if filter.SupplierID != "" {
		if id, ok := oid(filter.SupplierID); ok {
			match["fornecedor_id"] = id
		}
	}
	if filter.Status != "" {
		match["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, match, opts)
	if err != nil {
		return nil, fmt.Errorf("list boxes: %w", err)
	}
	var boxes []models.Box
	if err := cursor.All(ctx, &boxes); err != nil {
		return nil, fmt.Errorf("decode boxes: %w", err)
	}
	return boxes, nil
}

// GetByID returns a box or nil when the id does not resolve.
func (r *BoxRepository) GetByID(ctx context.Context, id string) (*models.Box, error) {
	boxID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var box models.Box
	err := r.coll.FindOne(ctx, bson.M{"_id": boxID}).Decode(&box)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find box %s: %w", id, err)
	}
	return &box, nil
}

// GetByCode returns a box by its exact code (case-insensitive), optionally
// restricted to boxes still in stock.
func (r *BoxRepository) GetByCode(ctx context.Context, code string, onlyInStock bool) (*models.Box, error) {
	match := bson.M{"codigo_caixa": bson.M{"$regex": "^" + regexp.QuoteMeta(code) + "$", "$options": "i"}}
	if onlyInStock {
		match["status"] = models.BoxStatusInStock
	}
	var box models.Box
	err := r.coll.FindOne(ctx, match).Decode(&box)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find box by code %s: %w", code, err)
	}
	return &box, nil
}

// SetCode backfills the human-readable code on a legacy box.
func (r *BoxRepository) SetCode(ctx context.Context, id primitive.ObjectID, code string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"codigo_caixa": code}})
	if err != nil {
		return fmt.Errorf("set box code: %w", err)
	}
	return nil
}

// SetWeightAndStatus applies a processing decrement to one box.
func (r *BoxRepository) SetWeightAndStatus(ctx context.Context, id primitive.ObjectID, weightKG float64, status models.BoxStatus) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"peso_atual_kg": weightKG,
		"status":        status,
	}})
	if err != nil {
		return fmt.Errorf("update box weight: %w", err)
	}
	return nil
}

// SetStatus flips a box's status (used by box sales).
func (r *BoxRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.BoxStatus) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update box status: %w", err)
	}
	return nil
}

// CountByEntry counts the boxes generated by one stock entry.
func (r *BoxRepository) CountByEntry(ctx context.Context, entryID primitive.ObjectID) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"entrada_id": entryID})
	if err != nil {
		return 0, fmt.Errorf("count boxes by entry: %w", err)
	}
	return n, nil
}

// DistinctBaseProducts lists the distinct base products of in-stock boxes.
func (r *BoxRepository) DistinctBaseProducts(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "produto_base", bson.M{"status": models.BoxStatusInStock})
	if err != nil {
		return nil, fmt.Errorf("distinct base products: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListInStockByProduct returns the in-stock boxes of one base product.
func (r *BoxRepository) ListInStockByProduct(ctx context.Context, baseProduct string) ([]models.Box, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"produto_base": baseProduct,
		"status":       models.BoxStatusInStock,
	})
	if err != nil {
		return nil, fmt.Errorf("list in-stock boxes: %w", err)
	}
	var boxes []models.Box
	if err := cursor.All(ctx, &boxes); err != nil {
		return nil, fmt.Errorf("decode boxes: %w", err)
	}
	return boxes, nil
}
