package users

// UpdateProfileRequest is the partial profile update payload; nil fields
// are left untouched
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Course   *string `json:"course"`
	PhotoURL *string `json:"photoUrl" binding:"omitempty,url"`
}
