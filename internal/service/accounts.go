package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

type Accounts struct {
	base
	hasher passwordHasher
	// decoy is verified against when the user is unknown, so a miss costs
	// as much as a wrong password.
	decoy string
}

func NewAccounts(conn *gorm.DB, cfg *config.Config, l *zap.SugaredLogger) *Accounts {
	hasher := newPasswordHasher(cfg)
	decoy, err := hasher.hash(uuid.New().String())
	if err != nil {
		l.Errorw("hash decoy password", "error", err)
	}
	return &Accounts{
		base:   newBase(conn, cfg, l),
		hasher: hasher,
		decoy:  decoy,
	}
}

// normalizeID is applied to every user id entering the package.
func normalizeID(userID string) string {
	return strings.TrimSpace(userID)
}

func (s *Accounts) Register(ctx context.Context, userID, pass, nickname string) error {
	userID = normalizeID(userID)
	nickname = strings.TrimSpace(nickname)
	if userID == "" || pass == "" || nickname == "" {
		return errors.Wrap(ErrInvalidInput, "register: id, password and nickname are required")
	}

	hash, err := s.hasher.hash(pass)
	if err != nil {
		return errors.Wrap(err, "register")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Create(&db.User{
		ID:           userID,
		PasswordHash: hash,
		Nickname:     nickname,
	})
	if res.Error != nil {
		return s.fail("register", res.Error)
	}
	return nil
}

func (s *Accounts) Authenticate(ctx context.Context, userID, pass string) (*models.User, error) {
	userID = normalizeID(userID)

	tx, cancel := s.conn(ctx)
	defer cancel()

	user := db.User{}
	res := tx.Where("id = ?", userID).Take(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			_, _ = s.hasher.verify(s.decoy, pass)
			return nil, ErrInvalidCredentials
		}
		return nil, s.fail("authenticate", res.Error)
	}

	ok, err := s.hasher.verify(user.PasswordHash, pass)
	if err != nil {
		s.logger.Errorw("authenticate: stored hash unreadable", "user", userID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return toUser(&user), nil
}

func (s *Accounts) GetUserInfo(ctx context.Context, userID string) (*models.User, error) {
	userID = normalizeID(userID)

	tx, cancel := s.conn(ctx)
	defer cancel()

	user := db.User{}
	res := tx.Where("id = ?", userID).Take(&user)
	if res.Error != nil {
		return nil, s.fail("get user", res.Error)
	}
	return toUser(&user), nil
}

func (s *Accounts) UpdateNickname(ctx context.Context, userID, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return errors.Wrap(ErrInvalidInput, "update nickname: nickname is required")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Model(&db.User{}).Where("id = ?", userID).Update("nickname", nickname)
	if res.Error != nil {
		return s.fail("update nickname", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "update nickname")
	}
	return nil
}

// UpdatePassword replaces the stored hash unconditionally. Callers go through
// ChangePassword unless the current password was already verified.
func (s *Accounts) UpdatePassword(ctx context.Context, userID, newPass string) error {
	if newPass == "" {
		return errors.Wrap(ErrInvalidInput, "update password: password is required")
	}

	hash, err := s.hasher.hash(newPass)
	if err != nil {
		return errors.Wrap(err, "update password")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Model(&db.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return s.fail("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "update password")
	}
	return nil
}

func (s *Accounts) ChangePassword(ctx context.Context, userID, current, next, confirm string) error {
	if _, err := s.Authenticate(ctx, userID, current); err != nil {
		return err
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	return s.UpdatePassword(ctx, userID, next)
}

// DeleteUser removes the account; fridge rows, recipes, comments and
// favorites go with it through ON DELETE CASCADE.
func (s *Accounts) DeleteUser(ctx context.Context, userID string) error {
	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Where("id = ?", userID).Delete(&db.User{})
	if res.Error != nil {
		return s.fail("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "delete user")
	}
	return nil
}

func (s *Accounts) IssueToken(ctx context.Context, userID string) (string, error) {
	userID = normalizeID(userID)

	tx, cancel := s.conn(ctx)
	defer cancel()

	token := uuid.New().String()
	res := tx.Model(&db.User{}).Where("id = ?", userID).Update("token", token)
	if res.Error != nil {
		return "", s.fail("update token", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", errors.Wrap(ErrNotFound, "update token")
	}
	return token, nil
}

func (s *Accounts) UserByToken(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	user := db.User{}
	res := tx.Where("token = ?", token).Take(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.fail("find user by token", res.Error)
	}
	return toUser(&user), nil
}

func (s *Accounts) RevokeToken(ctx context.Context, userID string) error {
	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Model(&db.User{}).Where("id = ?", userID).Update("token", nil)
	if res.Error != nil {
		return s.fail("revoke token", res.Error)
	}
	return nil
}

func toUser(u *db.User) *models.User {
	return &models.User{
		ID:        u.ID,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt,
	}
}
