package models

import "time"

// MemberRole represents a member's permission level within a space.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// SpaceMember links a user to a space with a role. A (space, user) pair has
// at most one row; leaving deactivates the row instead of deleting it so a
// rejoin via invite code reactivates the original membership.
type SpaceMember struct {
	Base
	SpaceID  uint       `gorm:"not null;index:idx_space_user,unique" json:"space_id"`
	UserID   uint       `gorm:"not null;index:idx_space_user,unique" json:"user_id"`
	Role     MemberRole `gorm:"not null;default:member" json:"role"`
	IsActive bool       `gorm:"default:true" json:"is_active"`
	JoinedAt time.Time  `gorm:"autoCreateTime" json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CanManage reports whether the role may update space settings or invite codes.
func (r MemberRole) CanManage() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}
