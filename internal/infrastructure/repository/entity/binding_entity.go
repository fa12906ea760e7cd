package entity

import (
	"time"

	"dropship-storefront-connect/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoBindingDoc represents a shop binding in MongoDB.
type MongoBindingDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ShopDomain     string             `bson:"shopDomain"`
	OwnerAccountID int64              `bson:"ownerAccountId"`
	OwnerRole      string             `bson:"ownerRole"`
	Verified       bool               `bson:"verified"`
	APIKey         string             `bson:"apiKey"`
	APISecret      string             `bson:"apiSecret"`
	Scopes         string             `bson:"scopes"`
	RedirectURL    string             `bson:"redirectUrl"`
	APIVersion     string             `bson:"apiVersion"`
	AccessToken    string             `bson:"accessToken,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	CreatedBy      int64              `bson:"createdBy"`
	CreatedByRole  string             `bson:"createdByRole"`
	VerifiedAt     *time.Time         `bson:"verifiedAt,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoBindingDoc) ToDomain() *domain.ShopBinding {
	return &domain.ShopBinding{
		ID:             d.ID.Hex(),
		ShopDomain:     d.ShopDomain,
		OwnerAccountID: d.OwnerAccountID,
		OwnerRole:      d.OwnerRole,
		Verified:       d.Verified,
		APIKey:         d.APIKey,
		APISecret:      d.APISecret,
		Scopes:         d.Scopes,
		RedirectURL:    d.RedirectURL,
		APIVersion:     d.APIVersion,
		AccessToken:    d.AccessToken,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
		CreatedByRole:  d.CreatedByRole,
		VerifiedAt:     d.VerifiedAt,
	}
}

// MongoBindingDocFromDomain converts a domain entity to a MongoDB document.
func MongoBindingDocFromDomain(b *domain.ShopBinding) *MongoBindingDoc {
	doc := &MongoBindingDoc{
		ShopDomain:     b.ShopDomain,
		OwnerAccountID: b.OwnerAccountID,
		OwnerRole:      b.OwnerRole,
		Verified:       b.Verified,
		APIKey:         b.APIKey,
		APISecret:      b.APISecret,
		Scopes:         b.Scopes,
		RedirectURL:    b.RedirectURL,
		APIVersion:     b.APIVersion,
		AccessToken:    b.AccessToken,
		CreatedAt:      b.CreatedAt,
		CreatedBy:      b.CreatedBy,
		CreatedByRole:  b.CreatedByRole,
		VerifiedAt:     b.VerifiedAt,
	}

	if b.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(b.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
