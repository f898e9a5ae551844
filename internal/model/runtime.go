package model

// User is the authenticated runtime user.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName,omitempty"`
}

// DisplayName returns the best available human name of the user.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.FirstName != "" || u.LastName != "":
		if u.LastName == "" {
			return u.FirstName
		}
		if u.FirstName == "" {
			return u.LastName
		}
		return u.FirstName + " " + u.LastName
	default:
		return u.Email
	}
}

// Session is the response of POST /auth/login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Holiday is one record of the holidays entity. Day is an ISO date.
type Holiday struct {
	ID      string `json:"id,omitempty"`
	Day     string `json:"day"`
	Title   string `json:"title"`
	Label   string `json:"label,omitempty"`
	Country *Ref   `json:"country,omitempty"`
}

// Name returns the title, falling back to the record label.
func (h Holiday) Name() string {
	if h.Title != "" {
		return h.Title
	}
	return h.Label
}

// List is the envelope of every GET /data/<entity> response.
type List[T any] struct {
	Total  int    `json:"total"`
	Offset string `json:"offset,omitempty"`
	Items  []T    `json:"items"`
}
