package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finspace/internal/errors"
	"finspace/internal/invite"
	"finspace/internal/models"
	"finspace/internal/pagination"
)

// spaceService handles space and membership business logic.
type spaceService struct {
	db *gorm.DB
}

// NewSpaceService creates a new SpaceServicer.
func NewSpaceService(db *gorm.DB) SpaceServicer {
	return &spaceService{db: db}
}

// CreateSpace creates a space and enrolls the creator as its owner. A user
// may have at most one personal space.
func (s *spaceService) CreateSpace(userID uint, name, description string, spaceType models.SpaceType, currency string) (*models.Space, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "space name is required")
	}
	if currency == "" {
		currency = "USD"
	}

	if spaceType == models.SpaceTypePersonal {
		var count int64
		err := s.db.Model(&models.Space{}).
			Joins("JOIN space_members ON space_members.space_id = spaces.id").
			Where("spaces.space_type = ? AND space_members.user_id = ? AND space_members.role = ? AND space_members.is_active = ?",
				models.SpaceTypePersonal, userID, models.MemberRoleOwner, true).
			Count(&count).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrPersonalSpaceExists
		}
	}

	code, err := s.uniqueInviteCode()
	if err != nil {
		return nil, err
	}

	space := &models.Space{
		Name:        name,
		Description: description,
		SpaceType:   spaceType,
		Currency:    strings.ToUpper(currency),
		InviteCode:  code,
		IsActive:    true,
		CreatedBy:   userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(space).Error; err != nil {
			return err
		}
		member := &models.SpaceMember{
			SpaceID:  space.ID,
			UserID:   userID,
			Role:     models.MemberRoleOwner,
			IsActive: true,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return space, nil
}

// uniqueInviteCode generates an invite code not already in use. Collisions
// in a 32^6 space are rare; a handful of retries is plenty.
func (s *spaceService) uniqueInviteCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := invite.NewCode()
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		var count int64
		if err := s.db.Model(&models.Space{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", apperrors.WithMessage(apperrors.ErrInternalServer, "could not generate a unique invite code")
}

// ActiveMembership returns the user's active membership in a space, or
// ErrNotSpaceMember if there is none.
func (s *spaceService) ActiveMembership(userID, spaceID uint) (*models.SpaceMember, error) {
	var member models.SpaceMember
	err := s.db.Where("space_id = ? AND user_id = ? AND is_active = ?", spaceID, userID, true).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotSpaceMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// GetUserSpaces returns a paginated list of the spaces the user belongs to.
func (s *spaceService) GetUserSpaces(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Space], error) {
	page.Defaults()

	base := s.db.Model(&models.Space{}).
		Joins("JOIN space_members ON space_members.space_id = spaces.id").
		Where("space_members.user_id = ? AND space_members.is_active = ? AND spaces.is_active = ?", userID, true, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var spaces []models.Space
	if err := base.Order("spaces.id").Scopes(pagination.Paginate(page)).Find(&spaces).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(spaces, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSpaceByID returns a space with its members if the user belongs to it.
func (s *spaceService) GetSpaceByID(userID, spaceID uint) (*models.Space, error) {
	if _, err := s.ActiveMembership(userID, spaceID); err != nil {
		return nil, err
	}

	var space models.Space
	err := s.db.Preload("Members", "is_active = ?", true).Preload("Members.User").
		Where("id = ? AND is_active = ?", spaceID, true).First(&space).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSpaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &space, nil
}

// UpdateSpace updates a space's settings. Only owners and admins may update.
func (s *spaceService) UpdateSpace(userID, spaceID uint, name, description, currency *string) (*models.Space, error) {
	member, err := s.ActiveMembership(userID, spaceID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanManage() {
		return nil, apperrors.ErrForbidden
	}

	var space models.Space
	if err := s.db.Where("id = ? AND is_active = ?", spaceID, true).First(&space).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSpaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if currency != nil && *currency != "" {
		updates["currency"] = strings.ToUpper(*currency)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&space).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return &space, nil
}

// DeleteSpace deactivates a space. Owner only.
func (s *spaceService) DeleteSpace(userID, spaceID uint) error {
	member, err := s.ActiveMembership(userID, spaceID)
	if err != nil {
		return err
	}
	if member.Role != models.MemberRoleOwner {
		return apperrors.ErrForbidden
	}

	if err := s.db.Model(&models.Space{}).Where("id = ?", spaceID).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// JoinByInviteCode adds the user to the space matching the code. Rejoining a
// space left earlier reactivates the original membership.
func (s *spaceService) JoinByInviteCode(userID uint, code string) (*models.Space, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !invite.IsValid(code) {
		return nil, apperrors.ErrInvalidInviteCode
	}

	var space models.Space
	err := s.db.Where("invite_code = ? AND is_active = ?", code, true).First(&space).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidInviteCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var member models.SpaceMember
	err = s.db.Where("space_id = ? AND user_id = ?", space.ID, userID).First(&member).Error
	switch {
	case err == nil:
		if member.IsActive {
			return nil, apperrors.ErrAlreadyMember
		}
		updates := map[string]interface{}{"is_active": true, "left_at": nil}
		if err := s.db.Model(&member).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		member = models.SpaceMember{
			SpaceID:  space.ID,
			UserID:   userID,
			Role:     models.MemberRoleMember,
			IsActive: true,
		}
		if err := s.db.Create(&member).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &space, nil
}

// LeaveSpace deactivates the user's membership. Owners cannot leave; they
// must delete the space or transfer ownership first.
func (s *spaceService) LeaveSpace(userID, spaceID uint) error {
	member, err := s.ActiveMembership(userID, spaceID)
	if err != nil {
		return err
	}
	if member.Role == models.MemberRoleOwner {
		return apperrors.ErrOwnerCannotLeave
	}

	now := time.Now()
	updates := map[string]interface{}{"is_active": false, "left_at": now}
	if err := s.db.Model(member).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMembers returns the active members of a space with user details.
func (s *spaceService) GetMembers(userID, spaceID uint) ([]models.SpaceMember, error) {
	if _, err := s.ActiveMembership(userID, spaceID); err != nil {
		return nil, err
	}

	var members []models.SpaceMember
	err := s.db.Preload("User").
		Where("space_id = ? AND is_active = ?", spaceID, true).
		Order("joined_at").
		Find(&members).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

// RegenerateInviteCode replaces the space's invite code, revoking the old
// one. Only owners and admins may regenerate.
func (s *spaceService) RegenerateInviteCode(userID, spaceID uint) (*models.Space, error) {
	member, err := s.ActiveMembership(userID, spaceID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanManage() {
		return nil, apperrors.ErrForbidden
	}

	var space models.Space
	if err := s.db.Where("id = ? AND is_active = ?", spaceID, true).First(&space).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSpaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code, err := s.uniqueInviteCode()
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&space).Update("invite_code", code).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	space.InviteCode = code

	return &space, nil
}
