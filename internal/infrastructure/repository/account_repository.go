package repository

import (
	"context"
	"fmt"

	"dropship-storefront-connect/internal/domain"
	"dropship-storefront-connect/internal/infrastructure/repository/entity"
	"dropship-storefront-connect/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAccountGateway implements AccountGateway against the console's
// accounts collection.
type MongoAccountGateway struct {
	collection *mongo.Collection
}

// NewMongoAccountGateway creates a new MongoDB account gateway.
func NewMongoAccountGateway(db *mongo.Database) ports.AccountGateway {
	return &MongoAccountGateway{
		collection: db.Collection("accounts"),
	}
}

// ResolvePrincipal looks up the account and classifies it. The role string is
// the one the caller presented: unrecognized roles mark a delegated staff
// member whose bindings belong to the linked parent account.
func (g *MongoAccountGateway) ResolvePrincipal(ctx context.Context, accountID int64, role string) (domain.Principal, error) {
	var doc entity.MongoAccountDoc
	filter := bson.M{"accountId": accountID}

	err := g.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.NewError(domain.KindPrincipalNotFound,
			fmt.Sprintf("account %d does not exist", accountID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if doc.Status != entity.AccountStatusActive {
		return nil, domain.NewError(domain.KindPrincipalNotFound,
			fmt.Sprintf("account %d is not authorized", accountID))
	}

	return domain.NewPrincipal(accountID, role, doc.ParentAccountID), nil
}
