package domain

import "time"

type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	FullName     string
	Phone        *string
	City         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfessionalProfile is the business metadata attached to a user with the
// professional role. RatingAvg/RatingCount are aggregates maintained by the
// review service.
type ProfessionalProfile struct {
	UserID       int64     `json:"user_id"`
	BusinessName string    `json:"business_name"`
	Category     string    `json:"category"`
	Bio          *string   `json:"bio,omitempty"`
	HourlyRate   *float64  `json:"hourly_rate,omitempty"`
	ServiceArea  *string   `json:"service_area,omitempty"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int       `json:"rating_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfessionalView is the read model returned by listings: the user joined
// with its profile.
type ProfessionalView struct {
	UserID       int64    `json:"user_id"`
	FullName     string   `json:"full_name"`
	City         *string  `json:"city,omitempty"`
	BusinessName string   `json:"business_name"`
	Category     string   `json:"category"`
	Bio          *string  `json:"bio,omitempty"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
	ServiceArea  *string  `json:"service_area,omitempty"`
	RatingAvg    float64  `json:"rating_avg"`
	RatingCount  int      `json:"rating_count"`
}

type ProfessionalsQuery struct {
	Category  *string
	City      *string
	MinRating *float64
	Page      int
	PerPage   int
}
