package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StaffRole is a skill tag a user advertises, not an account type: the same
// user may work events and also book staff as an organizer.
type StaffRole string

const (
	RoleGeneralStaff    StaffRole = "general_staff"
	RoleSeniorStaff     StaffRole = "senior_staff"
	RoleProductionStaff StaffRole = "production_staff"
	RoleBarStaff        StaffRole = "bar_staff"
	RoleOrganizer       StaffRole = "organizer"
)

var validRoles = map[StaffRole]bool{
	RoleGeneralStaff:    true,
	RoleSeniorStaff:     true,
	RoleProductionStaff: true,
	RoleBarStaff:        true,
	RoleOrganizer:       true,
}

func IsValidRole(r StaffRole) bool { return validRoles[r] }

// WorkerRoles are the bookable roles (an organizer books, it is not booked).
func WorkerRoles() []StaffRole {
	return []StaffRole{RoleGeneralStaff, RoleSeniorStaff, RoleProductionStaff, RoleBarStaff}
}

type Region string

const (
	RegionNorth     Region = "north"
	RegionCenter    Region = "center"
	RegionSouth     Region = "south"
	RegionJerusalem Region = "jerusalem"
	RegionSharon    Region = "sharon"
	RegionShfela    Region = "shfela"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Phone string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone"`

	Password    string `gorm:"type:varchar(100)" json:"-"`
	HasPassword bool   `gorm:"default:false" json:"has_password"`

	FullName        string `gorm:"type:varchar(120)" json:"full_name"`
	Email           string `gorm:"type:varchar(150);index" json:"email"`
	City            string `gorm:"type:varchar(120)" json:"city"`
	Region          Region `gorm:"type:varchar(20)" json:"region"`
	Bio             string `gorm:"type:text" json:"bio"`
	ExperienceYears int    `json:"experience_years"`
	ProfileImage    string `gorm:"type:text" json:"profile_image"`
	Available       bool   `gorm:"default:true" json:"available"`

	// Advertised roles and per-role asking prices.
	Roles      datatypes.JSON `json:"roles"`
	RolePrices datatypes.JSON `json:"role_prices"`

	// Single-use login code, cleared on successful phone login.
	VerificationCode        string     `gorm:"type:varchar(10)" json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`

	PasswordResetToken   string     `gorm:"type:varchar(64)" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// RoleList decodes the roles column; an empty/absent column is no roles.
func (u *User) RoleList() []StaffRole {
	if len(u.Roles) == 0 {
		return nil
	}
	var roles []StaffRole
	if err := json.Unmarshal(u.Roles, &roles); err != nil {
		return nil
	}
	return roles
}

func (u *User) HasRole(r StaffRole) bool {
	for _, have := range u.RoleList() {
		if have == r {
			return true
		}
	}
	return false
}

func (u *User) SetRoles(roles []StaffRole) error {
	b, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	u.Roles = datatypes.JSON(b)
	return nil
}

// PriceMap decodes the role_prices column.
func (u *User) PriceMap() map[StaffRole]int64 {
	if len(u.RolePrices) == 0 {
		return nil
	}
	var prices map[StaffRole]int64
	if err := json.Unmarshal(u.RolePrices, &prices); err != nil {
		return nil
	}
	return prices
}

// PriceFor returns the advertised price for a role, if any.
func (u *User) PriceFor(r StaffRole) (int64, bool) {
	p, ok := u.PriceMap()[r]
	return p, ok
}

func (u *User) SetRolePrices(prices map[StaffRole]int64) error {
	b, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	u.RolePrices = datatypes.JSON(b)
	return nil
}
