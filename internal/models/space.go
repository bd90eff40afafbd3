package models

// SpaceType represents the kind of financial context a space provides.
type SpaceType string

const (
	SpaceTypePersonal SpaceType = "personal"
	SpaceTypeShared   SpaceType = "shared"
	SpaceTypeProject  SpaceType = "project"
)

// Space is a financial context (personal or shared) that owns budgets
// and has members with roles.
type Space struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	SpaceType   SpaceType `gorm:"not null" json:"space_type"`
	Currency    string    `gorm:"size:3;not null;default:USD" json:"currency"`
	InviteCode  string    `gorm:"size:6;uniqueIndex;not null" json:"invite_code"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`

	// Relationships
	Members []SpaceMember `gorm:"foreignKey:SpaceID" json:"members,omitempty"`
	Budgets []Budget      `gorm:"foreignKey:SpaceID" json:"budgets,omitempty"`
}

// IsPersonal reports whether this is the user's personal space.
func (s *Space) IsPersonal() bool {
	return s.SpaceType == SpaceTypePersonal
}
