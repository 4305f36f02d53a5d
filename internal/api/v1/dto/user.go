package dto

// UserResponseDTO is returned in API responses.
type UserResponseDTO struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	ImageURL         string `json:"image_url"`
	Country          string `json:"country"`
	IsPremium        bool   `json:"is_premium"`
	IsAdmin          bool   `json:"is_admin"`
	RegistrationDate string `json:"registration_date"`
	Exists           bool   `json:"exists"`
}

// UserUpdateDTO is used for incoming profile updates; nil fields are left
// untouched.
type UserUpdateDTO struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"image_url"`
	Country  *string `json:"country"`
}
