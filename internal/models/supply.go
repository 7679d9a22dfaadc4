package models

import "gorm.io/datatypes"

// Supply is a stocked art-supply product sold at a fixed price.
type Supply struct {
	Base
	Title       string                      `gorm:"not null" json:"title" validate:"present"`
	Description *string                     `gorm:"type:text" json:"description"`
	Price       *float64                    `gorm:"not null" json:"price" validate:"required,gte=0"`
	Category    string                      `gorm:"size:128;not null;index" json:"category" validate:"present"`
	Images      datatypes.JSONSlice[string] `json:"images" validate:"dive,http_url"`
	Stock       int                         `json:"stock" validate:"gte=0"`
	Brand       *string                     `json:"brand"`
}

// NewSupply returns a Supply holding the declared defaults.
func NewSupply() *Supply {
	s := &Supply{}
	s.Normalize()
	return s
}

// Normalize restores list defaults.
func (s *Supply) Normalize() {
	if s.Images == nil {
		s.Images = datatypes.JSONSlice[string]{}
	}
}
