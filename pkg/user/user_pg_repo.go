package user

import (
	"context"
	"errors"
	"strings"

	"github.com/kamgaa/lab-reservation/pkg/pglock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UsersRepoPg struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewUsersRepoPg(logger *zap.SugaredLogger, db *gorm.DB) *UsersRepoPg {
	return &UsersRepoPg{
		logger: logger,
		db:     db,
	}
}

func (repo *UsersRepoPg) Create(ctx context.Context, u *User) (*User, error) {
	repo.logger.Debugw("Create()", "userID", u.UserID, "teamName", u.TeamName)

	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			repo.logger.Warnw("couldnt create user - already exists", "userID", u.UserID)
			return nil, ErrUserExists
		}
		repo.logger.Errorw("error creating user", "userID", u.UserID, "err", err)
		return nil, err
	}

	repo.logger.Debugw("user created", "userID", u.UserID)
	return u, nil
}

func (repo *UsersRepoPg) GetByID(ctx context.Context, userID string) (*User, error) {
	repo.logger.Debugw("GetByID()", "userID", userID)

	var u User
	if err := repo.db.WithContext(ctx).First(&u, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			repo.logger.Warnw("user does not exist", "userID", userID)
			return nil, ErrUserNotFound
		}
		repo.logger.Errorw("error getting user", "userID", userID, "err", err)
		return nil, err
	}

	return &u, nil
}

// Authenticate returns ErrInvalidCredentials for both an unknown id and a wrong
// password.
func (repo *UsersRepoPg) Authenticate(ctx context.Context, userID, password string) (*User, error) {
	repo.logger.Debugw("Authenticate()", "userID", userID)

	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := u.CheckPassword(password); err != nil {
		repo.logger.Warnw("wrong password", "userID", userID)
		return nil, err
	}

	return u, nil
}

// UpdateProfile renames, re-teams or changes the id of a user. Reservations keep
// the team they were booked under; a changed id is carried over to them as owner.
func (repo *UsersRepoPg) UpdateProfile(ctx context.Context, userID string, p Profile) (*User, error) {
	repo.logger.Debugw("UpdateProfile()", "userID", userID, "newUserID", p.UserID, "teamName", p.TeamName)

	if err := Validate(p); err != nil {
		return nil, err
	}

	var updated User
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// an admission in flight for the old id must not commit after the move
		if p.UserID != userID {
			if err := pglock.XactLock(tx, pglock.Admission); err != nil {
				repo.logger.Errorw("error taking admission lock", "userID", userID, "err", err)
				return err
			}
		}

		var current User
		if err := tx.First(&current, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				repo.logger.Warnw("user does not exist", "userID", userID)
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Model(&User{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"user_id":   p.UserID,
				"name":      p.Name,
				"team_name": p.TeamName,
			}).Error; err != nil {
			if isDuplicate(err) {
				repo.logger.Warnw("couldnt change user id - already taken", "userID", userID, "newUserID", p.UserID)
				return ErrUserExists
			}
			return err
		}

		if p.UserID != userID {
			if err := tx.Table("reservations").
				Where("owner_id = ?", userID).
				Update("owner_id", p.UserID).Error; err != nil {
				repo.logger.Errorw("error moving reservations to new user id", "userID", userID, "err", err)
				return err
			}
		}

		return tx.First(&updated, "user_id = ?", p.UserID).Error
	})

	if err != nil {
		repo.logger.Errorw("failed to update profile", "userID", userID, "err", err)
		return nil, err
	}

	repo.logger.Debugw("profile updated", "userID", updated.UserID)
	return &updated, nil
}

func (repo *UsersRepoPg) ListUsers(ctx context.Context) ([]*User, error) {
	repo.logger.Debugw("ListUsers()")

	var users []*User
	if err := repo.db.WithContext(ctx).Order("user_id ASC").Find(&users).Error; err != nil {
		repo.logger.Errorw("error listing users", "err", err)
		return nil, err
	}

	return users, nil
}

// gorm does not always translate the driver error inside transactions, so the
// SQLSTATE is checked as well.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "SQLSTATE 23505")
}
