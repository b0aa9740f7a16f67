package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
	"github.com/vendygo/vendygo-backend/pkg/enums"
	"github.com/vendygo/vendygo-backend/pkg/types"
)

// DefaultAvatarURL is assigned when registration omits an avatar.
const DefaultAvatarURL = "https://cdn.vendygo.in/avatars/default.png"

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	BusinessName string         `json:"business_name"`
	Location     string         `json:"location"`
	Role         enums.UserRole `json:"role"`
	Rating       float64        `json:"rating"`
	RatingCounts types.Ratings  `json:"rating_counts"`
	AvatarURL    string         `json:"avatar_url"`
	TotalTrades  int            `json:"total_trades"`
	Specialties  []string       `json:"specialties"`
	JoinedAt     time.Time      `json:"joined_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	BusinessName string
	Location     string
	Role         enums.UserRole
	AvatarURL    string
	Specialties  []string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		BusinessName: u.BusinessName,
		Location:     u.Location,
		Role:         u.Role,
		Rating:       u.Rating,
		RatingCounts: u.RatingCounts,
		AvatarURL:    u.AvatarURL,
		TotalTrades:  u.TotalTrades,
		Specialties:  append([]string(nil), u.Specialties...),
		JoinedAt:     u.JoinedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	avatar := c.AvatarURL
	if avatar == "" {
		avatar = DefaultAvatarURL
	}

	specialties := c.Specialties
	if specialties == nil {
		specialties = []string{}
	} else {
		specialties = append([]string(nil), specialties...)
	}

	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		PasswordHash: c.PasswordHash,
		BusinessName: c.BusinessName,
		Location:     c.Location,
		Role:         c.Role,
		Rating:       5.0,
		AvatarURL:    avatar,
		TotalTrades:  0,
		Specialties:  pq.StringArray(specialties),
	}
}
