package models

import (
	"sort"
	"time"
)

// PropertyUpdate is a sparse set of field changes. A nil field is "not supplied"
// and leaves the stored value untouched; there is no way to clear an optional
// field through an update. PropertyID is immutable and has no field here.
type PropertyUpdate struct {
	Title           *string
	Description     *string
	Price           *float64
	Currency        *string
	Address         *Address
	PropertyType    *PropertyType
	Bedrooms        *int
	Bathrooms       *float64
	SquareFootage   *float64
	LotSize         *float64
	YearBuilt       *int
	Features        []string
	Images          []string
	Status          *Status
	SellerID        *string
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason *string

	// ExpectStatus, when set, makes the update apply only if the stored record
	// still has this status. It is a precondition, never a written field.
	ExpectStatus *Status
}

// StatusMatches reports whether current satisfies ExpectStatus.
func (u PropertyUpdate) StatusMatches(current Status) bool {
	return u.ExpectStatus == nil || *u.ExpectStatus == current
}

// Field names used by Fields. They match the json/bson/dynamodbav attribute names.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPrice           = "price"
	FieldCurrency        = "currency"
	FieldAddress         = "address"
	FieldPropertyType    = "propertyType"
	FieldBedrooms        = "bedrooms"
	FieldBathrooms       = "bathrooms"
	FieldSquareFootage   = "squareFootage"
	FieldLotSize         = "lotSize"
	FieldYearBuilt       = "yearBuilt"
	FieldFeatures        = "features"
	FieldImages          = "images"
	FieldStatus          = "status"
	FieldSellerID        = "sellerId"
	FieldUpdatedAt       = "updatedAt"
	FieldApprovedAt      = "approvedAt"
	FieldRejectedAt      = "rejectedAt"
	FieldRejectionReason = "rejectionReason"
)

// Fields maps every supplied attribute to its new value. Stores translate this
// map into their own patch form (update expression, $set document).
func (u PropertyUpdate) Fields() map[string]any {
	f := make(map[string]any)
	if u.Title != nil {
		f[FieldTitle] = *u.Title
	}
	if u.Description != nil {
		f[FieldDescription] = *u.Description
	}
	if u.Price != nil {
		f[FieldPrice] = *u.Price
	}
	if u.Currency != nil {
		f[FieldCurrency] = *u.Currency
	}
	if u.Address != nil {
		f[FieldAddress] = *u.Address
	}
	if u.PropertyType != nil {
		f[FieldPropertyType] = *u.PropertyType
	}
	if u.Bedrooms != nil {
		f[FieldBedrooms] = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		f[FieldBathrooms] = *u.Bathrooms
	}
	if u.SquareFootage != nil {
		f[FieldSquareFootage] = *u.SquareFootage
	}
	if u.LotSize != nil {
		f[FieldLotSize] = *u.LotSize
	}
	if u.YearBuilt != nil {
		f[FieldYearBuilt] = *u.YearBuilt
	}
	if u.Features != nil {
		f[FieldFeatures] = append([]string{}, u.Features...)
	}
	if u.Images != nil {
		f[FieldImages] = append([]string{}, u.Images...)
	}
	if u.Status != nil {
		f[FieldStatus] = *u.Status
	}
	if u.SellerID != nil {
		f[FieldSellerID] = *u.SellerID
	}
	if u.ApprovedAt != nil {
		f[FieldApprovedAt] = *u.ApprovedAt
	}
	if u.RejectedAt != nil {
		f[FieldRejectedAt] = *u.RejectedAt
	}
	if u.RejectionReason != nil {
		f[FieldRejectionReason] = *u.RejectionReason
	}
	return f
}

// Changed returns the sorted names of the supplied fields.
func (u PropertyUpdate) Changed() []string {
	fields := u.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether no field is supplied.
func (u PropertyUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// ChangesStatus reports whether applying u to a record in status current moves it
// to a different storage key.
func (u PropertyUpdate) ChangesStatus(current Status) bool {
	return u.Status != nil && *u.Status != current
}

// ApplyTo overlays u on existing and stamps updatedAt. The property id and
// creation time always come from existing.
func (u PropertyUpdate) ApplyTo(existing Property, now time.Time) Property {
	next := existing.Clone()
	if u.Title != nil {
		next.Title = *u.Title
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	if u.Price != nil {
		next.Price = *u.Price
	}
	if u.Currency != nil {
		next.Currency = *u.Currency
	}
	if u.Address != nil {
		next.Address = *u.Address
	}
	if u.PropertyType != nil {
		next.PropertyType = *u.PropertyType
	}
	if u.Bedrooms != nil {
		next.Bedrooms = Ptr(*u.Bedrooms)
	}
	if u.Bathrooms != nil {
		next.Bathrooms = Ptr(*u.Bathrooms)
	}
	if u.SquareFootage != nil {
		next.SquareFootage = Ptr(*u.SquareFootage)
	}
	if u.LotSize != nil {
		next.LotSize = Ptr(*u.LotSize)
	}
	if u.YearBuilt != nil {
		next.YearBuilt = Ptr(*u.YearBuilt)
	}
	if u.Features != nil {
		next.Features = append([]string{}, u.Features...)
	}
	if u.Images != nil {
		next.Images = append([]string{}, u.Images...)
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.SellerID != nil {
		next.SellerID = *u.SellerID
	}
	if u.ApprovedAt != nil {
		next.ApprovedAt = Ptr(*u.ApprovedAt)
	}
	if u.RejectedAt != nil {
		next.RejectedAt = Ptr(*u.RejectedAt)
	}
	if u.RejectionReason != nil {
		next.RejectionReason = Ptr(*u.RejectionReason)
	}
	next.PropertyID = existing.PropertyID
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = now
	return next
}
