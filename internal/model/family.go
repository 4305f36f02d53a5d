package model

// Family roles as stored in the hoja Familias.
const (
	RoleMadre    = "madre"
	RolePadre    = "padre"
	RoleAbuelo   = "abuelo"
	RoleCuidador = "cuidador"
)

// FamilyMember is one row of the Familias sheet: one row per (family, member)
// pair. BabyName is denormalized onto every row and must be kept in sync on
// rename.
type FamilyMember struct {
	FamilyID  string `json:"family_id"`
	UserEmail string `json:"user_email"`
	BabyName  string `json:"baby_name"`
	IsOwner   bool   `json:"is_owner"`
	Role      string `json:"role"`
}

// FamilyInfo is the resolved view of the caller's family.
type FamilyInfo struct {
	Exists   bool               `json:"exists"`
	FamilyID string             `json:"family_id,omitempty"`
	BabyName string             `json:"baby_name,omitempty"`
	Members  []FamilyMemberInfo `json:"members,omitempty"`
	UserRole string             `json:"user_role,omitempty"`
	IsOwner  bool               `json:"is_owner"`
}

// FamilyMemberInfo describes another member of the caller's family, with the
// display name resolved against the user directory.
type FamilyMemberInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsOwner bool   `json:"is_owner"`
}
