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

// DeliveryRepository persists generated delivery records.
type DeliveryRepository struct {
	coll *mongo.Collection
}

// NewDeliveryRepository builds a DeliveryRepository.
func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{coll: db.Collection(collDeliveries)}
}

// Exists reports whether a record for (plan, date) is already present. The
// existence check is what makes generation idempotent.
func (r *DeliveryRepository) Exists(ctx context.Context, planID primitive.ObjectID, date time.Time) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{
		"plano_id":     planID,
		"data_entrega": models.DateOnly(date),
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check delivery existence: %w", err)
	}
	return true, nil
}

// Insert stores a new delivery record.
func (r *DeliveryRepository) Insert(ctx context.Context, delivery *models.DeliveryRecord) error {
	res, err := r.coll.InsertOne(ctx, delivery)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		delivery.ID = id
	}
	return nil
}

// ListBetween returns deliveries whose date falls in [from, to], date order.
func (r *DeliveryRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.DeliveryRecord, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to).Add(24*time.Hour - time.Millisecond)
	opts := options.Find().SetSort(bson.D{{Key: "data_entrega", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{
		"data_entrega": bson.M{"$gte": start, "$lte": end},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	var deliveries []models.DeliveryRecord
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, fmt.Errorf("decode deliveries: %w", err)
	}
	return deliveries, nil
}

// GetByID returns a delivery or nil when the id does not resolve.
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*models.DeliveryRecord, error) {
	deliveryID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var delivery models.DeliveryRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": deliveryID}).Decode(&delivery)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find delivery: %w", err)
	}
	return &delivery, nil
}

// Confirm flips PENDENTE to ENTREGUE. The filter matches on the current status
// so a confirmed or missing record is a no-op, reported as false.
func (r *DeliveryRepository) Confirm(ctx context.Context, id string) (bool, error) {
	deliveryID, ok := oid(id)
	if !ok {
		return false, nil
	}
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": deliveryID, "status": models.DeliveryPending},
		bson.M{"$set": bson.M{
			"status":           models.DeliveryDelivered,
			"data_confirmacao": now,
			"updated_at":       now,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("confirm delivery: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
