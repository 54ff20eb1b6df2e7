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

var saleSort = bson.D{{Key: "data_venda", Value: -1}, {Key: "created_at", Value: -1}}

// BoxSaleRepository persists whole-box sales.
type BoxSaleRepository struct {
	coll *mongo.Collection
}

// NewBoxSaleRepository builds a BoxSaleRepository.
func NewBoxSaleRepository(db *mongo.Database) *BoxSaleRepository {
	return &BoxSaleRepository{coll: db.Collection(collBoxSales)}
}

// Insert stores a box sale and fills in its generated id.
func (r *BoxSaleRepository) Insert(ctx context.Context, sale *models.BoxSale) error {
	res, err := r.coll.InsertOne(ctx, sale)
	if err != nil {
		return fmt.Errorf("insert box sale: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		sale.ID = id
	}
	return nil
}

// List returns box sales, newest first.
func (r *BoxSaleRepository) List(ctx context.Context) ([]models.BoxSale, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(saleSort))
	if err != nil {
		return nil, fmt.Errorf("list box sales: %w", err)
	}
	var sales []models.BoxSale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode box sales: %w", err)
	}
	return sales, nil
}

// GetByID returns a box sale or nil when the id does not resolve.
func (r *BoxSaleRepository) GetByID(ctx context.Context, id string) (*models.BoxSale, error) {
	saleID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var sale models.BoxSale
	err := r.coll.FindOne(ctx, bson.M{"_id": saleID}).Decode(&sale)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find box sale: %w", err)
	}
	return &sale, nil
}

// DerivedSaleRepository persists derived-product sales.
type DerivedSaleRepository struct {
	coll *mongo.Collection
}

// NewDerivedSaleRepository builds a DerivedSaleRepository.
func NewDerivedSaleRepository(db *mongo.Database) *DerivedSaleRepository {
	return &DerivedSaleRepository{coll: db.Collection(collSales)}
}

// Insert stores a derived sale and fills in its generated id.
func (r *DerivedSaleRepository) Insert(ctx context.Context, sale *models.DerivedSale) error {
	res, err := r.coll.InsertOne(ctx, sale)
	if err != nil {
		return fmt.Errorf("insert derived sale: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		sale.ID = id
	}
	return nil
}

// List returns derived sales, newest first.
func (r *DerivedSaleRepository) List(ctx context.Context) ([]models.DerivedSale, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"tipo_venda": bson.M{"$exists": true}}, options.Find().SetSort(saleSort))
	if err != nil {
		return nil, fmt.Errorf("list derived sales: %w", err)
	}
	var sales []models.DerivedSale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode derived sales: %w", err)
	}
	return sales, nil
}

// GetByID returns a derived sale or nil when the id does not resolve.
func (r *DerivedSaleRepository) GetByID(ctx context.Context, id string) (*models.DerivedSale, error) {
	saleID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var sale models.DerivedSale
	err := r.coll.FindOne(ctx, bson.M{"_id": saleID}).Decode(&sale)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find derived sale: %w", err)
	}
	return &sale, nil
}
