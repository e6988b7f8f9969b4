package user

import (
	"context"
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")
	ErrUserExists         = errors.New("USER_EXISTS")
	ErrInvalidUserID      = errors.New("INVALID_USER_ID")
	ErrInvalidName        = errors.New("INVALID_NAME")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
)

// Student ids are 8 digits.
var userIDPattern = regexp.MustCompile(`^[0-9]{8}$`)

// User - team_name is empty for a user who has not joined a team yet.
type User struct {
	UserID       string `gorm:"primaryKey;type:varchar(64);column:user_id" json:"user_id"`
	Name         string `gorm:"type:varchar(255);not null;column:name" json:"name"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	TeamName     string `gorm:"type:varchar(64);index;not null;column:team_name" json:"team_name"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the editable part of a user.
type Profile struct {
	UserID   string
	Name     string
	TeamName string
}

type UsersRepo interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	Authenticate(ctx context.Context, userID, password string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, p Profile) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// New validates registration input and hashes the password.
func New(userID, name, password, teamName string) (*User, error) {
	if err := Validate(Profile{UserID: userID, Name: name, TeamName: teamName}); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		UserID:       userID,
		Name:         name,
		PasswordHash: string(hash),
		TeamName:     teamName,
	}, nil
}

func Validate(p Profile) error {
	if !userIDPattern.MatchString(p.UserID) {
		return ErrInvalidUserID
	}
	if !isHangulName(p.Name) {
		return ErrInvalidName
	}
	return nil
}

func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Names are written in Hangul syllables only.
func isHangulName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '가' || r > '힣' {
			return false
		}
	}
	return true
}
