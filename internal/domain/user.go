package domain

// User is the authenticated account. No password material is held client-side.
type User struct {
	Entity
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName returns the full name, falling back to the email.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// Credentials is the body of POST /auth/signin and /auth/signup.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput is what the signup form collects.
// The confirmation never leaves the client.
type SignupInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// Credentials returns the part of the form that is submitted.
func (in SignupInput) Credentials() Credentials {
	return Credentials{Email: in.Email, Password: in.Password}
}

// AuthResponse is returned by signin and signup.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

// UpdateUserInput is the body of PATCH /user/update. Empty fields are omitted.
type UpdateUserInput struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}
