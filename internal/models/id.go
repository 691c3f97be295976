package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh record id in the document store's format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a 24-character hex object id.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
