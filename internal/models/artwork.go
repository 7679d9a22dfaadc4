package models

import "gorm.io/datatypes"

// AvailabilityStatus tells buyers whether an artwork can still be acquired.
type AvailabilityStatus string

const (
	AvailabilityAvailable      AvailabilityStatus = "available"
	AvailabilityReserved       AvailabilityStatus = "reserved"
	AvailabilitySold           AvailabilityStatus = "sold"
	AvailabilityCommissionOnly AvailabilityStatus = "commission_only"
)

// DefaultShippingOptions is used when an artwork lists none.
var DefaultShippingOptions = []string{"artist-arranged", "insured-courier", "local-pickup"}

// Artwork is a showcase piece. It is presented with its story rather than as a
// fixed-price SKU, so pricing is a free-text range.
type Artwork struct {
	Base
	ArtistID           string                      `gorm:"size:64;not null;index" json:"artist_id" validate:"present"`
	Title              string                      `gorm:"not null" json:"title" validate:"present"`
	Story              *string                     `gorm:"type:text" json:"story"`
	Media              *string                     `json:"media"`
	Dimensions         *string                     `json:"dimensions"`
	Year               *int                        `json:"year"`
	Images             datatypes.JSONSlice[string] `json:"images" validate:"dive,http_url"`
	PriceRange         *string                     `json:"price_range"`
	AvailabilityStatus AvailabilityStatus          `gorm:"size:32;not null" json:"availability_status" validate:"oneof=available reserved sold commission_only"`
	Tags               datatypes.JSONSlice[string] `json:"tags"`
	Location           *string                     `json:"location"`
	ShippingOptions    datatypes.JSONSlice[string] `json:"shipping_options"`
	Likes              int                         `json:"likes" validate:"gte=0"`
	Views              int                         `json:"views" validate:"gte=0"`
}

// NewArtwork returns an Artwork holding the declared defaults.
func NewArtwork() *Artwork {
	a := &Artwork{AvailabilityStatus: AvailabilityAvailable}
	a.Normalize()
	return a
}

// Normalize restores list defaults.
func (a *Artwork) Normalize() {
	if a.Images == nil {
		a.Images = datatypes.JSONSlice[string]{}
	}
	if a.Tags == nil {
		a.Tags = datatypes.JSONSlice[string]{}
	}
	if a.ShippingOptions == nil {
		a.ShippingOptions = append(datatypes.JSONSlice[string]{}, DefaultShippingOptions...)
	}
}
