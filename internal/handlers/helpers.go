package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Locals("userId")
	uidStr, ok := raw.(string)
	if !ok || uidStr == "" {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uid, nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperr.Validation("invalid " + name)
	}
	return &id, nil
}

// UserResponse is the user shape returned by auth and profile endpoints.
// Phone is included only for the user's own record; counterpart phones on a
// job request go through the contact-visibility rule instead.
type UserResponse struct {
	ID              uuid.UUID                  `json:"id"`
	Phone           string                     `json:"phone,omitempty"`
	FullName        string                     `json:"full_name"`
	Email           string                     `json:"email,omitempty"`
	City            string                     `json:"city"`
	Region          models.Region              `json:"region"`
	Bio             string                     `json:"bio"`
	ExperienceYears int                        `json:"experience_years"`
	ProfileImage    string                     `json:"profile_image"`
	Available       bool                       `json:"available"`
	HasPassword     bool                       `json:"has_password"`
	Roles           []models.StaffRole         `json:"roles"`
	RolePrices      map[models.StaffRole]int64 `json:"role_prices"`
}

func toUserResponse(u *models.User, includePhone bool) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		City:            u.City,
		Region:          u.Region,
		Bio:             u.Bio,
		ExperienceYears: u.ExperienceYears,
		ProfileImage:    u.ProfileImage,
		Available:       u.Available,
		HasPassword:     u.HasPassword,
		Roles:           u.RoleList(),
		RolePrices:      u.PriceMap(),
	}
	if resp.Roles == nil {
		resp.Roles = []models.StaffRole{}
	}
	if resp.RolePrices == nil {
		resp.RolePrices = map[models.StaffRole]int64{}
	}
	if includePhone {
		resp.Phone = u.Phone
	}
	return resp
}
