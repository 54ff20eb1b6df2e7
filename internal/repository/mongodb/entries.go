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

// EntryRepository persists stock entries.
type EntryRepository struct {
	coll *mongo.Collection
}

// NewEntryRepository builds an EntryRepository.
func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{coll: db.Collection(collEntries)}
}

// Insert stores a new entry and fills in its generated id.
func (r *EntryRepository) Insert(ctx context.Context, entry *models.StockEntry) error {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

// List returns all entries, newest entry date first.
func (r *EntryRepository) List(ctx context.Context) ([]models.StockEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data_entrada", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	var entries []models.StockEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}

// GetByID returns an entry or nil when the id does not resolve.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*models.StockEntry, error) {
	entryID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	return r.getByObjectID(ctx, entryID)
}

// GetByObjectID returns an entry by its native id, for enrichment joins.
func (r *EntryRepository) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.StockEntry, error) {
	return r.getByObjectID(ctx, id)
}

func (r *EntryRepository) getByObjectID(ctx context.Context, id primitive.ObjectID) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return &entry, nil
}

// SupplierRepository persists supplier reference data.
type SupplierRepository struct {
	coll *mongo.Collection
}

// NewSupplierRepository builds a SupplierRepository.
func NewSupplierRepository(db *mongo.Database) *SupplierRepository {
	return &SupplierRepository{coll: db.Collection(collSuppliers)}
}

// Insert stores a new supplier.
func (r *SupplierRepository) Insert(ctx context.Context, supplier *models.Supplier) error {
	res, err := r.coll.InsertOne(ctx, supplier)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		supplier.ID = id
	}
	return nil
}

// ListActive returns active suppliers ordered by name.
func (r *SupplierRepository) ListActive(ctx context.Context) ([]models.Supplier, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ativo": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	var suppliers []models.Supplier
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, fmt.Errorf("decode suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByObjectID returns a supplier by native id or nil.
func (r *SupplierRepository) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&supplier)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &supplier, nil
}
