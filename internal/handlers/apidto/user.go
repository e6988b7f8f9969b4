package apidto

import "github.com/kamgaa/lab-reservation/pkg/user"

type User struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
}

func FromUser(u *user.User) User {
	if u == nil {
		return User{}
	}
	return User{
		UserID:   u.UserID,
		Name:     u.Name,
		TeamName: u.TeamName,
	}
}

func FromUsers(users []*user.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
