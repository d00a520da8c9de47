package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
	"github.com/eventcrew/eventcrew-api/internal/services/rating"
	"github.com/eventcrew/eventcrew-api/internal/utils"
)

type UserHandler struct {
	DB      *gorm.DB
	Ratings *rating.Service
}

func NewUserHandler(db *gorm.DB, ratings *rating.Service) *UserHandler {
	return &UserHandler{DB: db, Ratings: ratings}
}

// WorkerListItem augments the public profile with rating aggregates for the
// search results page.
type WorkerListItem struct {
	UserResponse
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// ListWorkers returns available staff, optionally filtered by role, region
// and city. Phones are never included here.
func (h *UserHandler) ListWorkers(c *fiber.Ctx) error {
	roleFilter := models.StaffRole(strings.TrimSpace(c.Query("role")))
	if roleFilter != "" && !models.IsValidRole(roleFilter) {
		return apperr.Write(c, apperr.Validation("unknown role "+string(roleFilter)))
	}

	q := h.DB.Where("available = ?", true).Where("roles IS NOT NULL")
	if region := strings.TrimSpace(c.Query("region")); region != "" {
		q = q.Where("region = ?", region)
	}
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		q = q.Where("city ILIKE ?", "%"+city+"%")
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}

	// Only bookable roles make someone a worker; the role filter is applied
	// here because roles live in a JSON column.
	workers := make([]*models.User, 0, len(users))
	workerIDs := make([]uuid.UUID, 0, len(users))
	for i := range users {
		u := &users[i]

		roles := u.RoleList()
		if len(roles) == 0 {
			continue
		}
		if roleFilter != "" && !u.HasRole(roleFilter) {
			continue
		}
		bookable := false
		for _, r := range roles {
			if r != models.RoleOrganizer {
				bookable = true
				break
			}
		}
		if !bookable {
			continue
		}

		workers = append(workers, u)
		workerIDs = append(workerIDs, u.ID)
	}

	aggregates, err := h.Ratings.AveragesForWorkers(c.Context(), workerIDs)
	if err != nil {
		return apperr.Write(c, err)
	}

	items := make([]WorkerListItem, 0, len(workers))
	for _, u := range workers {
		agg := aggregates[u.ID]
		items = append(items, WorkerListItem{
			UserResponse:  toUserResponse(u, false),
			AverageRating: agg.Avg,
			TotalRatings:  agg.Count,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type UpdateMeReq struct {
	FullName        *string                    `json:"full_name"`
	Email           *string                    `json:"email"`
	City            *string                    `json:"city"`
	Region          *models.Region             `json:"region"`
	Bio             *string                    `json:"bio"`
	ExperienceYears *int                       `json:"experience_years"`
	ProfileImage    *string                    `json:"profile_image"`
	Available       *bool                      `json:"available"`
	Roles           []models.StaffRole         `json:"roles"`
	RolePrices      map[models.StaffRole]int64 `json:"role_prices"`
	Password        *string                    `json:"password"`
}

// UpdateMe updates the caller's own profile. There is no path to update
// anyone else's row.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateMeReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", uid).Error; err != nil {
		return apperr.Write(c, apperr.NotFound("user"))
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.City != nil {
		user.City = strings.TrimSpace(*req.City)
	}
	if req.Region != nil {
		user.Region = *req.Region
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return apperr.Write(c, apperr.Validation("experience years must not be negative"))
		}
		user.ExperienceYears = *req.ExperienceYears
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}
	if req.Available != nil {
		user.Available = *req.Available
	}

	if req.Roles != nil {
		for _, r := range req.Roles {
			if !models.IsValidRole(r) {
				return apperr.Write(c, apperr.Validation("unknown role "+string(r)))
			}
		}
		if err := user.SetRoles(req.Roles); err != nil {
			return apperr.Write(c, apperr.Internal(err))
		}
	}
	if req.RolePrices != nil {
		for r, price := range req.RolePrices {
			if !models.IsValidRole(r) {
				return apperr.Write(c, apperr.Validation("unknown role "+string(r)))
			}
			if price <= 0 {
				return apperr.Write(c, apperr.Validation("price for "+string(r)+" must be positive"))
			}
		}
		if err := user.SetRolePrices(req.RolePrices); err != nil {
			return apperr.Write(c, apperr.Internal(err))
		}
	}

	if req.Password != nil {
		pw := strings.TrimSpace(*req.Password)
		if len(pw) < 6 {
			return apperr.Write(c, apperr.Validation("password must be at least 6 characters"))
		}
		hash, err := utils.HashPassword(pw)
		if err != nil {
			return apperr.Write(c, apperr.Internal(err))
		}
		user.Password = hash
		user.HasPassword = true
	}

	if err := h.DB.Save(&user).Error; err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}

	return c.JSON(fiber.Map{"success": true, "data": toUserResponse(&user, true)})
}
