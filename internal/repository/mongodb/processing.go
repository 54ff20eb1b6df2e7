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

// ProcessingRunRepository persists immutable processing runs.
type ProcessingRunRepository struct {
	coll *mongo.Collection
}

// NewProcessingRunRepository builds a ProcessingRunRepository.
func NewProcessingRunRepository(db *mongo.Database) *ProcessingRunRepository {
	return &ProcessingRunRepository{coll: db.Collection(collRuns)}
}

// Insert stores a new run and fills in its generated id.
func (r *ProcessingRunRepository) Insert(ctx context.Context, run *models.ProcessingRun) error {
	res, err := r.coll.InsertOne(ctx, run)
	if err != nil {
		return fmt.Errorf("insert processing run: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		run.ID = id
	}
	return nil
}

// List returns all runs, newest processing date first.
func (r *ProcessingRunRepository) List(ctx context.Context) ([]models.ProcessingRun, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data_processamento", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list processing runs: %w", err)
	}
	var runs []models.ProcessingRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode processing runs: %w", err)
	}
	return runs, nil
}

// GetByID returns a run or nil when the id does not resolve.
func (r *ProcessingRunRepository) GetByID(ctx context.Context, id string) (*models.ProcessingRun, error) {
	runID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var run models.ProcessingRun
	err := r.coll.FindOne(ctx, bson.M{"_id": runID}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find processing run: %w", err)
	}
	return &run, nil
}

// ListByOriginBaseProduct returns runs that consumed boxes of one base product.
func (r *ProcessingRunRepository) ListByOriginBaseProduct(ctx context.Context, baseProduct string) ([]models.ProcessingRun, error) {
	match := bson.M{"caixas_origem": bson.M{"$elemMatch": bson.M{"produto_base": baseProduct}}}
	cursor, err := r.coll.Find(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("list runs by base product: %w", err)
	}
	var runs []models.ProcessingRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode processing runs: %w", err)
	}
	return runs, nil
}

// ListByIDs returns the runs whose ids are in the given set.
func (r *ProcessingRunRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ProcessingRun, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("list runs by ids: %w", err)
	}
	var runs []models.ProcessingRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode processing runs: %w", err)
	}
	return runs, nil
}

// DerivedProductRepository persists derived-product lots.
type DerivedProductRepository struct {
	coll *mongo.Collection
}

// NewDerivedProductRepository builds a DerivedProductRepository.
func NewDerivedProductRepository(db *mongo.Database) *DerivedProductRepository {
	return &DerivedProductRepository{coll: db.Collection(collDerived)}
}

// Insert stores a new derived product lot.
func (r *DerivedProductRepository) Insert(ctx context.Context, product *models.DerivedProduct) error {
	res, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert derived product: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

// ListAvailable returns lots with positive available weight, optionally
// filtered by product name substring.
func (r *DerivedProductRepository) ListAvailable(ctx context.Context, product string) ([]models.DerivedProduct, error) {
	match := bson.M{"peso_disponivel_kg": bson.M{"$gt": 0}}
	if product != "" {
		match["produto"] = bson.M{"$regex": product, "$options": "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "produto", Value: 1}, {Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, match, opts)
	if err != nil {
		return nil, fmt.Errorf("list derived products: %w", err)
	}
	var products []models.DerivedProduct
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode derived products: %w", err)
	}
	return products, nil
}

// ListAvailableByName returns lots of one exact product name with stock left.
func (r *DerivedProductRepository) ListAvailableByName(ctx context.Context, product string) ([]models.DerivedProduct, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"produto":            product,
		"peso_disponivel_kg": bson.M{"$gt": 0},
	})
	if err != nil {
		return nil, fmt.Errorf("list derived products by name: %w", err)
	}
	var products []models.DerivedProduct
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode derived products: %w", err)
	}
	return products, nil
}

// ListByName returns every lot of one product name regardless of stock, used
// to collect origin runs for loss history.
func (r *DerivedProductRepository) ListByName(ctx context.Context, product string) ([]models.DerivedProduct, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"produto": product})
	if err != nil {
		return nil, fmt.Errorf("list derived products by name: %w", err)
	}
	var products []models.DerivedProduct
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode derived products: %w", err)
	}
	return products, nil
}

// GetByID returns a lot or nil when the id does not resolve.
func (r *DerivedProductRepository) GetByID(ctx context.Context, id string) (*models.DerivedProduct, error) {
	productID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var product models.DerivedProduct
	err := r.coll.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find derived product: %w", err)
	}
	return &product, nil
}

// SetAvailableKG writes the reduced available weight of one lot.
func (r *DerivedProductRepository) SetAvailableKG(ctx context.Context, id primitive.ObjectID, kg float64) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"peso_disponivel_kg": kg}})
	if err != nil {
		return fmt.Errorf("update derived product weight: %w", err)
	}
	return nil
}

// DistinctProducts lists the distinct names of derived products with stock.
func (r *DerivedProductRepository) DistinctProducts(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "produto", bson.M{"peso_disponivel_kg": bson.M{"$gt": 0}})
	if err != nil {
		return nil, fmt.Errorf("distinct derived products: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
