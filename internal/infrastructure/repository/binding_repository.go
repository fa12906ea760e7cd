package repository

import (
	"context"
	"fmt"
	"time"

	"dropship-storefront-connect/internal/domain"
	"dropship-storefront-connect/internal/infrastructure/repository/entity"
	"dropship-storefront-connect/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBindingRepository implements BindingRepository using MongoDB.
type MongoBindingRepository struct {
	collection *mongo.Collection
}

// NewMongoBindingRepository creates a new MongoDB binding repository.
func NewMongoBindingRepository(db *mongo.Database) *MongoBindingRepository {
	return &MongoBindingRepository{
		collection: db.Collection("shop_bindings"),
	}
}

// EnsureIndexes creates the unique index on shopDomain. The index is what
// actually serializes two concurrent connect attempts for the same new
// domain: the second insert fails instead of silently double-binding.
func (r *MongoBindingRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "shopDomain", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create shopDomain index: %w", err)
	}
	return nil
}

// FindByDomain retrieves a binding by shop domain.
func (r *MongoBindingRepository) FindByDomain(ctx context.Context, shopDomain string) (*domain.ShopBinding, error) {
	var doc entity.MongoBindingDoc
	filter := bson.M{"shopDomain": shopDomain}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get binding: %w", err)
	}

	return doc.ToDomain(), nil
}

// Create inserts a new binding. A duplicate shopDomain is reported as a
// binding conflict.
func (r *MongoBindingRepository) Create(ctx context.Context, binding *domain.ShopBinding) error {
	doc := entity.MongoBindingDocFromDomain(binding)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.WrapError(domain.KindBindingConflict,
				fmt.Sprintf("shop %s is already bound", binding.ShopDomain), err)
		}
		return fmt.Errorf("failed to create binding: %w", err)
	}

	if id, ok := result.InsertedID.(interface{ Hex() string }); ok {
		binding.ID = id.Hex()
	}

	return nil
}

// DeleteByDomain removes the binding for a shop domain.
func (r *MongoBindingRepository) DeleteByDomain(ctx context.Context, shopDomain string) error {
	filter := bson.M{"shopDomain": shopDomain}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete binding: %w", err)
	}
	return nil
}

// MarkVerified flips the binding to verified and stores the encrypted token.
func (r *MongoBindingRepository) MarkVerified(ctx context.Context, shopDomain string, encryptedToken string, at time.Time) error {
	filter := bson.M{"shopDomain": shopDomain}
	update := bson.M{"$set": bson.M{
		"verified":    true,
		"accessToken": encryptedToken,
		"verifiedAt":  at,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark binding verified: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no binding for shop %s", shopDomain)
	}

	return nil
}

// ListByOwner retrieves all bindings attributed to an owner account.
func (r *MongoBindingRepository) ListByOwner(ctx context.Context, ownerAccountID int64) ([]*domain.ShopBinding, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ownerAccountId": ownerAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	defer cursor.Close(ctx)

	var bindings []*domain.ShopBinding
	for cursor.Next(ctx) {
		var doc entity.MongoBindingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode binding: %w", err)
		}
		bindings = append(bindings, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return bindings, nil
}

var _ ports.BindingRepository = (*MongoBindingRepository)(nil)
