package entity

import "time"

// MongoAccountDoc represents a console account in MongoDB. Staff accounts
// carry a link to the parent (main) account they act on behalf of.
type MongoAccountDoc struct {
	AccountID       int64     `bson:"accountId"`
	Role            string    `bson:"role"`
	ParentAccountID int64     `bson:"parentAccountId,omitempty"`
	Status          string    `bson:"status"`
	Name            string    `bson:"name,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
}

// Account status values.
const (
	AccountStatusActive   = "active"
	AccountStatusDisabled = "disabled"
)
