package model

// User is a row in the Usuarios sheet. Email is the lookup key; rows are
// never hard-deleted.
type User struct {
	RegistrationDate string `json:"registration_date"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	ImageURL         string `json:"image_url"`
	IsPremium        bool   `json:"is_premium"`
	Country          string `json:"country"`
	PasswordHash     string `json:"-"`
	IsAdmin          bool   `json:"is_admin"`
}

// UserUpdate carries the fields of a profile update. Nil means "leave as is";
// each non-nil field becomes one targeted cell write.
type UserUpdate struct {
	Name         *string
	ImageURL     *string
	Country      *string
	IsPremium    *bool
	IsAdmin      *bool
	PasswordHash *string
}
