package models

// InquiryStatus tracks a purchase inquiry through the artist's review.
type InquiryStatus string

const (
	InquiryNew      InquiryStatus = "new"
	InquiryInReview InquiryStatus = "in_review"
	InquiryAccepted InquiryStatus = "accepted"
	InquiryDeclined InquiryStatus = "declined"
)

// PurchaseRequest is a buyer's inquiry about an artwork.
type PurchaseRequest struct {
	Base
	ArtworkID  string        `gorm:"size:64;not null;index" json:"artwork_id" validate:"present"`
	BuyerName  string        `gorm:"not null" json:"buyer_name" validate:"present"`
	BuyerEmail string        `gorm:"not null" json:"buyer_email" validate:"present"`
	Message    *string       `gorm:"type:text" json:"message"`
	Status     InquiryStatus `gorm:"size:16;not null" json:"status" validate:"oneof=new in_review accepted declined"`
}

// NewPurchaseRequest returns a PurchaseRequest holding the declared defaults.
func NewPurchaseRequest() *PurchaseRequest {
	return &PurchaseRequest{Message: strPtr(""), Status: InquiryNew}
}
