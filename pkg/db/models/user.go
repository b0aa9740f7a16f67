package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vendygo/vendygo-backend/pkg/enums"
	"github.com/vendygo/vendygo-backend/pkg/types"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone        string         `gorm:"column:phone;not null;default:''"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	BusinessName string         `gorm:"column:business_name;not null"`
	Location     string         `gorm:"column:location;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null"`
	Rating       float64        `gorm:"column:rating;type:numeric(3,2);not null;default:5.0"`
	RatingCounts types.Ratings  `gorm:"column:rating_counts;type:jsonb;not null;default:'{}'"`
	AvatarURL    string         `gorm:"column:avatar_url;not null;default:''"`
	TotalTrades  int            `gorm:"column:total_trades;not null;default:0"`
	Specialties  pq.StringArray `gorm:"column:specialties;type:text[];not null;default:'{}'"`
	JoinedAt     time.Time      `gorm:"column:joined_at;autoCreateTime"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
