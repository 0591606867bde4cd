package client

import "time"

// Authorization is the current authorization information for a bearer
// token.
type Authorization struct {
	Application Application `json:"application"`
	Scopes      []string    `json:"scopes"`
	Expires     time.Time   `json:"expires"`
	User        *User       `json:"user,omitempty"`
}

// Application is the partial application object in Authorization.
type Application struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is the partial user object in Authorization. Present only with the
// identify scope.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name,omitempty"`
	Discriminator string `json:"discriminator,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
}

// DisplayName prefers the global name over the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
