package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
	"finspace/internal/pagination"
	"finspace/internal/services"
)

// SpaceHandler handles space and membership requests.
type SpaceHandler struct {
	spaceService services.SpaceServicer
	auditService services.AuditServicer
}

// NewSpaceHandler creates a new SpaceHandler.
func NewSpaceHandler(spaceService services.SpaceServicer, auditService services.AuditServicer) *SpaceHandler {
	return &SpaceHandler{spaceService: spaceService, auditService: auditService}
}

// CreateSpaceRequest represents the request payload for creating a space.
type CreateSpaceRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=100"`
	Description string           `json:"description" binding:"max=500"`
	SpaceType   models.SpaceType `json:"space_type" binding:"required,space_type"`
	Currency    string           `json:"currency" binding:"omitempty,iso4217"`
}

// UpdateSpaceRequest represents the request payload for updating a space.
type UpdateSpaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Currency    *string `json:"currency" binding:"omitempty,iso4217"`
}

// JoinSpaceRequest represents the request payload for joining by invite code.
type JoinSpaceRequest struct {
	InviteCode string `json:"invite_code" binding:"required,len=6"`
}

// CreateSpace handles the creation of a new space.
// @Summary     Create a space
// @Description Create a new space; the creator becomes its owner
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSpaceRequest true "Space details"
// @Success     201 {object} models.Space "Space created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Personal space already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces [post]
func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	space, err := h.spaceService.CreateSpace(userID, req.Name, req.Description, req.SpaceType, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SPACE", "space", space.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "space_type": req.SpaceType})

	c.JSON(http.StatusCreated, gin.H{"space": space})
}

// GetSpaces handles listing the user's spaces.
// @Summary     Get spaces
// @Description Get a paginated list of spaces the user belongs to
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Space] "Paginated spaces"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces [get]
func (h *SpaceHandler) GetSpaces(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.spaceService.GetUserSpaces(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSpace handles retrieving a specific space.
// @Summary     Get space by ID
// @Description Get a specific space with its members
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Space ID"
// @Success     200 {object} models.Space "Space details"
// @Failure     400 {object} ErrorResponse "Invalid space ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     404 {object} ErrorResponse "Space not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id} [get]
func (h *SpaceHandler) GetSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	space, err := h.spaceService.GetSpaceByID(userID, spaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"space": space})
}

// UpdateSpace handles updating a space's settings.
// @Summary     Update space
// @Description Update a space's settings (owner or admin only)
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Space ID"
// @Param       request body UpdateSpaceRequest true "Updated space details"
// @Success     200 {object} models.Space "Updated space"
// @Failure     400 {object} ErrorResponse "Invalid input or space ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Space not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id} [put]
func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	space, err := h.spaceService.UpdateSpace(userID, spaceID, req.Name, req.Description, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SPACE", "space", spaceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"space": space})
}

// DeleteSpace handles deactivating a space.
// @Summary     Delete space
// @Description Deactivate a space (owner only)
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Space ID"
// @Success     200 {object} MessageResponse "Space deleted"
// @Failure     400 {object} ErrorResponse "Invalid space ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Owner only"
// @Failure     404 {object} ErrorResponse "Space not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id} [delete]
func (h *SpaceHandler) DeleteSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.spaceService.DeleteSpace(userID, spaceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SPACE", "space", spaceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Space deleted successfully"})
}

// JoinSpace handles joining a space by invite code.
// @Summary     Join a space
// @Description Join a space using its invite code
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinSpaceRequest true "Invite code"
// @Success     200 {object} models.Space "Joined space"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invalid invite code"
// @Failure     409 {object} ErrorResponse "Already a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/join [post]
func (h *SpaceHandler) JoinSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	space, err := h.spaceService.JoinByInviteCode(userID, req.InviteCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "JOIN_SPACE", "space", space.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"space": space})
}

// LeaveSpace handles leaving a space.
// @Summary     Leave a space
// @Description Leave a space; owners must delete or transfer first
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Space ID"
// @Success     200 {object} MessageResponse "Left space"
// @Failure     400 {object} ErrorResponse "Owner cannot leave"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id}/leave [post]
func (h *SpaceHandler) LeaveSpace(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.spaceService.LeaveSpace(userID, spaceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LEAVE_SPACE", "space", spaceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Left space successfully"})
}

// GetMembers handles listing a space's members.
// @Summary     Get space members
// @Description Get the active members of a space
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Space ID"
// @Success     200 {object} []models.SpaceMember "Space members"
// @Failure     400 {object} ErrorResponse "Invalid space ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id}/members [get]
func (h *SpaceHandler) GetMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	members, err := h.spaceService.GetMembers(userID, spaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// RegenerateInviteCode handles replacing a space's invite code.
// @Summary     Regenerate invite code
// @Description Replace the space's invite code, revoking the old one (owner or admin only)
// @Tags        spaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Space ID"
// @Success     200 {object} models.Space "Space with new invite code"
// @Failure     400 {object} ErrorResponse "Invalid space ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Space not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id}/invite-code [post]
func (h *SpaceHandler) RegenerateInviteCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	space, err := h.spaceService.RegenerateInviteCode(userID, spaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REGENERATE_INVITE_CODE", "space", spaceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"space": space})
}
