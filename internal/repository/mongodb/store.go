package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the application.
const (
	collBoxes       = "caixas_estoque"
	collEntries     = "entradas_estoque"
	collSuppliers   = "fornecedores"
	collRuns        = "processamentos"
	collDerived     = "produtos_derivados"
	collPricing     = "precificacao_emporium"
	collBoxSales    = "vendas_caixas"
	collSales       = "vendas"
	collCustomers   = "clientes_pao"
	collPlans       = "planos_entrega_pao"
	collDeliveries  = "entregas_pao"
	collReceivables = "titulos_receber_pao"
	collPayables    = "financeiro_titulos"
	collCounters    = "contadores"
	collSettings    = "configuracoes_operacao"
)

// Store owns the MongoDB connection. It is constructed once in main and the
// database handle is injected into every repository.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Database exposes the underlying database handle for repository constructors.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Close disconnects the MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CounterRepository hands out sequential values via an atomic
// find-and-increment upsert on a singleton counter document. Two concurrent
// callers can never receive the same value.
type CounterRepository struct {
	coll *mongo.Collection
}

// NewCounterRepository builds the counter repository.
func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{coll: db.Collection(collCounters)}
}

// Next increments and returns the named counter, creating it at 1.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Last int64 `bson:"ultimo"`
	}
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"ultimo": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	return doc.Last, nil
}

// oid parses a hex id string. Malformed ids are reported as not-ok, never as
// errors: lookups with bad ids behave as not-found.
func oid(id string) (primitive.ObjectID, bool) {
	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return parsed, true
}
