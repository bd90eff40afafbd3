package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
)

// onboardingService handles first-run setup. Completion runs the space,
// budget, and user services against a single transaction so a failure
// partway leaves nothing behind.
type onboardingService struct {
	db    *gorm.DB
	users UserServicer
}

// NewOnboardingService creates a new OnboardingServicer.
func NewOnboardingService(db *gorm.DB, users UserServicer) OnboardingServicer {
	return &onboardingService{db: db, users: users}
}

// Status reports whether the user has completed onboarding.
func (s *onboardingService) Status(userID uint) (bool, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.OnboardingCompleted, nil
}

// Complete runs first-run setup in one transaction: it creates the user's
// personal space, a master budget for the chosen month populated from the
// chosen framework, and marks onboarding done. A user who already has a
// personal space cannot onboard again.
func (s *onboardingService) Complete(userID uint, in OnboardingInput) (*OnboardingResult, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.OnboardingCompleted {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "onboarding already completed")
	}

	spaceName := in.SpaceName
	if spaceName == "" {
		spaceName = "Personal"
	}

	var result OnboardingResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		space, err := NewSpaceService(tx).CreateSpace(userID, spaceName, "", models.SpaceTypePersonal, in.Currency)
		if err != nil {
			return err
		}

		budget, err := NewBudgetService(tx).CreateBudget(userID, space.ID, BudgetInput{
			Name:        "Monthly Budget",
			Type:        models.BudgetTypeMaster,
			MonthPeriod: in.MonthPeriod,
			Framework:   in.Framework,
			Currency:    space.Currency,
			TotalIncome: in.TotalIncome,
		})
		if err != nil {
			return err
		}

		if err := NewUserService(tx).MarkOnboardingCompleted(userID); err != nil {
			return err
		}

		result = OnboardingResult{
			Space:  space,
			Budget: budget,
			Items:  budget.Items,
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &result, nil
}
