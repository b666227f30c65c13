// server/internal/api/handlers/property_request.go
package handlers

import (
	"strings"

	"square-feet-api/internal/models"
)

type AddressRequest struct {
	Street   string `json:"street" binding:"required,min=5"`
	Locality string `json:"locality" binding:"required,min=2"`
	City     string `json:"city" binding:"required,market_city"`
	State    string `json:"state" binding:"required,market_state"`
	ZipCode  string `json:"zipCode" binding:"required,numeric,len=6,market_zip"`
	Country  string `json:"country" binding:"required,market_country"`
}

func (r AddressRequest) toModel() models.Address {
	return models.Address{
		Street:   strings.TrimSpace(r.Street),
		Locality: strings.TrimSpace(r.Locality),
		City:     strings.TrimSpace(r.City),
		State:    strings.TrimSpace(r.State),
		ZipCode:  r.ZipCode,
		Country:  strings.TrimSpace(r.Country),
	}
}

// CreatePropertyRequest is the body of POST /api/properties. Timestamps are
// always set by the server; any supplied in the body are ignored.
type CreatePropertyRequest struct {
	PropertyID      string         `json:"propertyId" binding:"omitempty,max=64"`
	Title           string         `json:"title" binding:"required,min=3"`
	Description     string         `json:"description" binding:"required,min=10"`
	Price           float64        `json:"price" binding:"required,gt=0"`
	Currency        string         `json:"currency" binding:"omitempty,len=3,alpha"`
	Address         AddressRequest `json:"address" binding:"required"`
	PropertyType    string         `json:"propertyType" binding:"required,oneof=house apartment condo land commercial"`
	Bedrooms        *int           `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms       *float64       `json:"bathrooms" binding:"omitempty,gte=0"`
	SquareFootage   *float64       `json:"squareFootage" binding:"omitempty,gt=0"`
	LotSize         *float64       `json:"lotSize" binding:"omitempty,gt=0"`
	YearBuilt       *int           `json:"yearBuilt" binding:"omitempty,gte=1800,lte=2100"`
	Features        []string       `json:"features" binding:"omitempty,dive,required"`
	Images          []string       `json:"images" binding:"omitempty,dive,required"`
	Status          string         `json:"status" binding:"omitempty,oneof=draft pending approved rejected sold expired"`
	SellerID        string         `json:"sellerId"`
	RejectionReason *string        `json:"rejectionReason"`
}

// UpdatePropertyRequest is the body of PUT /api/properties/:id. Absent fields
// are left unchanged; a supplied address replaces the whole address.
type UpdatePropertyRequest struct {
	Title           *string         `json:"title" binding:"omitempty,min=3"`
	Description     *string         `json:"description" binding:"omitempty,min=10"`
	Price           *float64        `json:"price" binding:"omitempty,gt=0"`
	Currency        *string         `json:"currency" binding:"omitempty,len=3,alpha"`
	Address         *AddressRequest `json:"address"`
	PropertyType    *string         `json:"propertyType" binding:"omitempty,oneof=house apartment condo land commercial"`
	Bedrooms        *int            `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms       *float64        `json:"bathrooms" binding:"omitempty,gte=0"`
	SquareFootage   *float64        `json:"squareFootage" binding:"omitempty,gt=0"`
	LotSize         *float64        `json:"lotSize" binding:"omitempty,gt=0"`
	YearBuilt       *int            `json:"yearBuilt" binding:"omitempty,gte=1800,lte=2100"`
	Features        []string        `json:"features" binding:"omitempty,dive,required"`
	Images          []string        `json:"images" binding:"omitempty,dive,required"`
	Status          *string         `json:"status" binding:"omitempty,oneof=draft pending approved rejected sold expired"`
	SellerID        *string         `json:"sellerId" binding:"omitempty,min=1"`
	RejectionReason *string         `json:"rejectionReason"`
}

func (r UpdatePropertyRequest) toUpdate() models.PropertyUpdate {
	upd := models.PropertyUpdate{
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		SquareFootage:   r.SquareFootage,
		LotSize:         r.LotSize,
		YearBuilt:       r.YearBuilt,
		Features:        r.Features,
		Images:          r.Images,
		SellerID:        r.SellerID,
		RejectionReason: r.RejectionReason,
	}
	if r.Currency != nil {
		upd.Currency = models.Ptr(strings.ToUpper(*r.Currency))
	}
	if r.Address != nil {
		upd.Address = models.Ptr(r.Address.toModel())
	}
	if r.PropertyType != nil {
		upd.PropertyType = models.Ptr(models.PropertyType(*r.PropertyType))
	}
	if r.Status != nil {
		upd.Status = models.Ptr(models.Status(*r.Status))
	}
	return upd
}

// RejectRequest is the optional body of POST /api/properties/:id/reject.
type RejectRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}
