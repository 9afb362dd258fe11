// Package mongodb implements storage interfaces using MongoDB
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rwsbillyang/go-weixin-gateway/internal/storage"
)

// Store implements storage.Store using MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	tenants *mongo.Collection
}

// Config holds MongoDB connection settings
type Config struct {
	URI      string
	Database string
}

// NewStore creates a new MongoDB store
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)

	s := &Store{
		client:  client,
		db:      db,
		tenants: db.Collection("tenants"),
	}

	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("creating indexes: %w", err)
	}

	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	_, err := s.tenants.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating tenant indexes: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// TenantStore implementation

func (s *Store) CreateTenant(ctx context.Context, tenant *storage.Tenant) error {
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = tenant.CreatedAt
	if tenant.ID == "" {
		tenant.ID = primitive.NewObjectID().Hex()
	}
	if tenant.Status == "" {
		tenant.Status = storage.TenantStatusActive
	}

	_, err := s.tenants.InsertOne(ctx, tenant)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, tenant.ID)
	}
	return err
}

func (s *Store) GetTenant(ctx context.Context, id string) (*storage.Tenant, error) {
	var tenant storage.Tenant
	err := s.tenants.FindOne(ctx, bson.M{"_id": id}).Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *Store) UpdateTenant(ctx context.Context, tenant *storage.Tenant) error {
	tenant.UpdatedAt = time.Now()
	res, err := s.tenants.ReplaceOne(ctx, bson.M{"_id": tenant.ID}, tenant)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	res, err := s.tenants.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":     storage.TenantStatusDeleted,
			"updated_at": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListTenants(ctx context.Context, filter *storage.TenantFilter) ([]*storage.Tenant, error) {
	query := bson.M{}
	if filter != nil && filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find()
	if filter != nil {
		if filter.Limit > 0 {
			opts.SetLimit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			opts.SetSkip(int64(filter.Offset))
		}
	}

	cursor, err := s.tenants.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tenants []*storage.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}
