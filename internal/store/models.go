package store

import (
	"time"

	"github.com/dkeye/Chatter/internal/domain"
)

type userModel struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	Username     string `gorm:"size:30;uniqueIndex;not null"`
	Email        string `gorm:"size:254;not null"`
	PasswordHash string `gorm:"size:60;not null"`
}

func (userModel) TableName() string { return "users" }

type roomModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Number    string      `gorm:"size:10;uniqueIndex;not null"`
	Name      string      `gorm:"size:200;not null"`
	OwnerID   uint        `gorm:"not null"`
	Owner     userModel   `gorm:"foreignKey:OwnerID"`
	Access    string      `gorm:"size:20;not null;default:PUBLIC"`
	Locked    bool        `gorm:"not null;default:false"`
	Banned    []userModel `gorm:"many2many:room_banned_users"`
	Invited   []userModel `gorm:"many2many:room_invited_users"`
}

func (roomModel) TableName() string { return "rooms" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:       domain.UserID(m.ID),
		Username: m.Username,
		Email:    m.Email,
	}
}

func (m *roomModel) toDomain() *domain.Room {
	r := &domain.Room{
		Number: m.Number,
		Name:   m.Name,
		Owner:  m.Owner.Username,
		Access: domain.AccessMode(m.Access),
		Locked: m.Locked,
	}
	for _, u := range m.Banned {
		r.Banned = append(r.Banned, u.Username)
	}
	for _, u := range m.Invited {
		r.Invited = append(r.Invited, u.Username)
	}
	return r
}
