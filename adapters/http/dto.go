package http

import "github.com/getauthentic/backend/internal/domain/user"

type SignupRequest struct {
	RestaurantName string `json:"restaurant_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
}

type LoginRequest struct {
	// Identifier can be the email or the restaurant name.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginResponse struct {
	RestaurantName   string `json:"restaurant_name"`
	Email            string `json:"email"`
	ProfileCompleted bool   `json:"profile_completed"`
	AccessToken      string `json:"access_token"`
}

type ProfileUpdateRequest struct {
	OwnerName       *string `json:"owner_name"`
	Location        *string `json:"location"`
	BusinessType    *string `json:"business_type"`
	CurrentPosition *string `json:"current_position"`
	Phone           *string `json:"phone"`
	ContactEmail    *string `json:"contact_email" binding:"required,email"`
	Website         *string `json:"website"`
	Description     *string `json:"description"`
}

func (r ProfileUpdateRequest) ToDomain() user.ProfileUpdate {
	return user.ProfileUpdate{
		OwnerName:       r.OwnerName,
		Location:        r.Location,
		BusinessType:    r.BusinessType,
		CurrentPosition: r.CurrentPosition,
		Phone:           r.Phone,
		ContactEmail:    r.ContactEmail,
		Website:         r.Website,
		Description:     r.Description,
	}
}

type SaveQuizResultRequest struct {
	Email          string    `json:"email" binding:"required,email"`
	Scores         []float64 `json:"scores" binding:"required"`
	Categories     []string  `json:"categories" binding:"required"`
	ProfileType    string    `json:"profile_type" binding:"required"`
	ResultImageURL string    `json:"result_image_url"`
}

type QuizResultResponse struct {
	Exists      bool      `json:"exists"`
	Scores      []float64 `json:"scores,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	ProfileType string    `json:"profile_type,omitempty"`
}

type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateCheckoutSessionRequest struct {
	Email string `json:"email" binding:"required,email"`
	Plan  string `json:"plan" binding:"required"`
}
