package dto

// FamilyCreateDTO starts a family with the caller as owner.
type FamilyCreateDTO struct {
	BabyName string `json:"baby_name" validate:"required"`
	Role     string `json:"role"`
}

// FamilyRenameDTO changes the shared child name for the whole family.
type FamilyRenameDTO struct {
	BabyName string `json:"baby_name" validate:"required"`
}

// FamilyInviteDTO adds a registered user to the caller's family.
type FamilyInviteDTO struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// FamilyRoleDTO changes a member's role.
type FamilyRoleDTO struct {
	Email string `json:"email"`
	Role  string `json:"role" validate:"required"`
}

// FamilyInfoDTO is the resolved family view for the caller.
type FamilyInfoDTO struct {
	Exists   bool              `json:"exists"`
	FamilyID string            `json:"family_id,omitempty"`
	BabyName string            `json:"baby_name,omitempty"`
	Members  []FamilyMemberDTO `json:"members"`
	UserRole string            `json:"user_role,omitempty"`
	IsOwner  bool              `json:"is_owner"`
}

// FamilyMemberDTO is one other member of the caller's family.
type FamilyMemberDTO struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsOwner bool   `json:"is_owner"`
}
