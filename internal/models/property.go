// server/internal/models/property.go
package models

import (
	"strings"
	"time"
)

// Status is the lifecycle stage of a listing. It is part of the storage key.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusSold     Status = "sold"
	StatusExpired  Status = "expired"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusSold,
	StatusExpired,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusSold, StatusExpired:
		return true
	}
	return false
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

type PropertyType string

const (
	TypeHouse      PropertyType = "house"
	TypeApartment  PropertyType = "apartment"
	TypeCondo      PropertyType = "condo"
	TypeLand       PropertyType = "land"
	TypeCommercial PropertyType = "commercial"
)

func (t PropertyType) Valid() bool {
	switch t {
	case TypeHouse, TypeApartment, TypeCondo, TypeLand, TypeCommercial:
		return true
	}
	return false
}

// Address is the structured location of a listing.
type Address struct {
	Street   string `bson:"street" json:"street" dynamodbav:"street"`
	Locality string `bson:"locality" json:"locality" dynamodbav:"locality"`
	City     string `bson:"city" json:"city" dynamodbav:"city"`
	State    string `bson:"state" json:"state" dynamodbav:"state"`
	ZipCode  string `bson:"zipCode" json:"zipCode" dynamodbav:"zipCode"`
	Country  string `bson:"country" json:"country" dynamodbav:"country"`
}

// Property is a real-estate listing. In DynamoDB it is keyed by (propertyId, status);
// in MongoDB propertyId is the document _id.
type Property struct {
	PropertyID      string       `bson:"_id" json:"propertyId" dynamodbav:"propertyId"`
	Title           string       `bson:"title" json:"title" dynamodbav:"title"`
	Description     string       `bson:"description" json:"description" dynamodbav:"description"`
	Price           float64      `bson:"price" json:"price" dynamodbav:"price"`
	Currency        string       `bson:"currency" json:"currency" dynamodbav:"currency"`
	Address         Address      `bson:"address" json:"address" dynamodbav:"address"`
	PropertyType    PropertyType `bson:"propertyType" json:"propertyType" dynamodbav:"propertyType"`
	Bedrooms        *int         `bson:"bedrooms,omitempty" json:"bedrooms,omitempty" dynamodbav:"bedrooms,omitempty"`
	Bathrooms       *float64     `bson:"bathrooms,omitempty" json:"bathrooms,omitempty" dynamodbav:"bathrooms,omitempty"`
	SquareFootage   *float64     `bson:"squareFootage,omitempty" json:"squareFootage,omitempty" dynamodbav:"squareFootage,omitempty"`
	LotSize         *float64     `bson:"lotSize,omitempty" json:"lotSize,omitempty" dynamodbav:"lotSize,omitempty"`
	YearBuilt       *int         `bson:"yearBuilt,omitempty" json:"yearBuilt,omitempty" dynamodbav:"yearBuilt,omitempty"`
	Features        []string     `bson:"features" json:"features" dynamodbav:"features"`
	Images          []string     `bson:"images" json:"images" dynamodbav:"images"` // first one is the cover
	Status          Status       `bson:"status" json:"status" dynamodbav:"status"`
	SellerID        string       `bson:"sellerId" json:"sellerId" dynamodbav:"sellerId"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt" dynamodbav:"updatedAt"`
	ApprovedAt      *time.Time   `bson:"approvedAt,omitempty" json:"approvedAt,omitempty" dynamodbav:"approvedAt,omitempty"`
	RejectedAt      *time.Time   `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty" dynamodbav:"rejectedAt,omitempty"`
	RejectionReason *string      `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty" dynamodbav:"rejectionReason,omitempty"`
}

// Clone returns a deep copy so stored values never alias caller memory.
func (p Property) Clone() Property {
	out := p
	out.Bedrooms = clonePtr(p.Bedrooms)
	out.Bathrooms = clonePtr(p.Bathrooms)
	out.SquareFootage = clonePtr(p.SquareFootage)
	out.LotSize = clonePtr(p.LotSize)
	out.YearBuilt = clonePtr(p.YearBuilt)
	out.ApprovedAt = clonePtr(p.ApprovedAt)
	out.RejectedAt = clonePtr(p.RejectedAt)
	out.RejectionReason = clonePtr(p.RejectionReason)
	if p.Features != nil {
		out.Features = append([]string{}, p.Features...)
	}
	if p.Images != nil {
		out.Images = append([]string{}, p.Images...)
	}
	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Now returns the current UTC time at millisecond precision, the resolution
// timestamps keep in every store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
