package server

import (
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UpsertProfile handles POST /api/profile, creating or replacing the
// requesting user's profile.
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Handle   string `json:"handle"`
		Company  string `json:"company"`
		Website  string `json:"website"`
		Location string `json:"location"`
		Status   string `json:"status"`
		Bio      string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Handle == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Profile handle is required"))
	}

	profile := &models.Profile{
		UserID:   userID,
		Handle:   req.Handle,
		Company:  req.Company,
		Website:  req.Website,
		Location: req.Location,
		Status:   req.Status,
		Bio:      req.Bio,
	}
	if err := s.profileRepo.Upsert(c.Context(), profile); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", userID))
	}

	return c.JSON(profile)
}

// GetProfile handles GET /api/profile/:user_id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id", "user ID")
	if err != nil {
		return nil
	}

	profile, getErr := s.profileRepo.GetByUserID(c.Context(), userID)
	if getErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, getErr)
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", userID))
	}

	return c.JSON(profile)
}
