package domain

// User is the account record owned by storage. The profile form only reads
// the four editable attributes.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileUpdate is the payload submitted by the profile form and the
// PUT /api/v1/users/profile endpoint.
type ProfileUpdate struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Apply returns a copy of u with every profile attribute replaced by p.
func (p ProfileUpdate) Apply(u User) User {
	u.Username = p.Username
	u.Email = p.Email
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	return u
}
