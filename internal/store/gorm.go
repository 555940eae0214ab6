package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkeye/Chatter/internal/domain"
)

// Gorm implements RoomStore and UserStore on top of gorm + sqlite.
type Gorm struct {
	db *gorm.DB
}

var (
	_ RoomStore = (*Gorm)(nil)
	_ UserStore = (*Gorm)(nil)
)

// Open opens (or creates) the sqlite database at path and migrates
// the schema.
func Open(path string) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&userModel{}, &roomModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Str("module", "store").Str("path", path).Msg("database ready")
	return &Gorm{db: db}, nil
}

func (s *Gorm) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u userModel
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u.toDomain(), nil
}

func (s *Gorm) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&userModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	u := userModel{Username: username, Email: email, PasswordHash: passwordHash}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u.toDomain(), nil
}

func (s *Gorm) PasswordHash(ctx context.Context, username string) (string, error) {
	var u userModel
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	return u.PasswordHash, nil
}

func (s *Gorm) RoomByNumber(ctx context.Context, number string) (*domain.Room, error) {
	m, err := s.roomByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (s *Gorm) roomByNumber(ctx context.Context, number string) (*roomModel, error) {
	var m roomModel
	err := s.db.WithContext(ctx).
		Preload("Owner").Preload("Banned").Preload("Invited").
		First(&m, "number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &m, nil
}

// generateRoomNumber builds a 10-character string of unique digits.
func generateRoomNumber() string {
	digits := []byte("0123456789")
	rand.Shuffle(len(digits), func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})
	return string(digits)
}

func (s *Gorm) CreateRoom(ctx context.Context, name, owner string, access domain.AccessMode) (*domain.Room, error) {
	var ownerRow userModel
	if err := s.db.WithContext(ctx).First(&ownerRow, "username = ?", owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	m := roomModel{Name: name, OwnerID: ownerRow.ID, Owner: ownerRow, Access: string(access)}
	// Room numbers are random digit permutations; retry until one is
	// free of collisions.
	for {
		number := generateRoomNumber()
		var count int64
		if err := s.db.WithContext(ctx).Model(&roomModel{}).Where("number = ?", number).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check room number: %w", err)
		}
		if count == 0 {
			m.Number = number
			break
		}
	}
	if err := s.db.WithContext(ctx).Omit("Owner").Create(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	log.Info().Str("module", "store").Str("room", m.Number).Str("owner", owner).Msg("room created")
	return m.toDomain(), nil
}

func (s *Gorm) RoomsOwnedBy(ctx context.Context, owner string) ([]*domain.Room, error) {
	var ownerRow userModel
	if err := s.db.WithContext(ctx).First(&ownerRow, "username = ?", owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}
	var rows []roomModel
	err := s.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ?", ownerRow.ID).Order("created_at").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	out := make([]*domain.Room, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Gorm) UpdateRoomName(ctx context.Context, number, name string) error {
	return s.updateRoom(ctx, number, map[string]any{"name": name})
}

func (s *Gorm) UpdateRoomAccess(ctx context.Context, number string, access domain.AccessMode) error {
	return s.updateRoom(ctx, number, map[string]any{"access": string(access)})
}

func (s *Gorm) SetRoomLocked(ctx context.Context, number string, locked bool) error {
	return s.updateRoom(ctx, number, map[string]any{"locked": locked})
}

func (s *Gorm) updateRoom(ctx context.Context, number string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&roomModel{}).Where("number = ?", number).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *Gorm) DeleteRoom(ctx context.Context, number string) error {
	m, err := s.roomByNumber(ctx, number)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Banned", "Invited").Delete(m).Error; err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (s *Gorm) BanUser(ctx context.Context, number, username string) error {
	return s.appendUserAssoc(ctx, number, username, "Banned")
}

func (s *Gorm) InviteUser(ctx context.Context, number, username string) error {
	return s.appendUserAssoc(ctx, number, username, "Invited")
}

func (s *Gorm) appendUserAssoc(ctx context.Context, number, username, assoc string) error {
	m, err := s.roomByNumber(ctx, number)
	if err != nil {
		return err
	}
	var u userModel
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Guests and unknown names have no account row to link.
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(m).Association(assoc).Append(&u); err != nil {
		return fmt.Errorf("failed to update %s set: %w", assoc, err)
	}
	return nil
}
