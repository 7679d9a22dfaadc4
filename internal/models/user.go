package models

// Role is the kind of account a user holds.
type Role string

const (
	RoleArtist    Role = "artist"
	RoleCollector Role = "collector"
	RoleBoth      Role = "both"
)

// User represents an ArtLink account.
type User struct {
	Base
	Name      string  `gorm:"not null" json:"name" validate:"present"`
	Email     string  `gorm:"not null" json:"email" validate:"present"`
	Role      Role    `gorm:"size:16;not null" json:"role" validate:"oneof=artist collector both"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,http_url"`
	Bio       *string `gorm:"type:text" json:"bio"`
	Location  *string `json:"location"`
	IsActive  bool    `json:"is_active"`
}

// NewUser returns a User holding the declared defaults.
func NewUser() *User {
	return &User{
		Role:     RoleBoth,
		Bio:      strPtr(""),
		IsActive: true,
	}
}
