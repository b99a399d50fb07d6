package types

type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Merge returns u with every non-empty field of patch applied.
func (u User) Merge(patch User) User {
	if patch.Name != "" {
		u.Name = patch.Name
	}
	if patch.Email != "" {
		u.Email = patch.Email
	}
	if patch.Avatar != "" {
		u.Avatar = patch.Avatar
	}
	return u
}
