package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleBursar    UserRole = "bursar"
	UserRoleLibrarian UserRole = "librarian"
	UserRoleTeacher   UserRole = "teacher"
)

type User struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	Email        string   `gorm:"column:email;type:varchar(120);uniqueIndex;not null" json:"email"`
	FullName     string   `gorm:"column:full_name;type:varchar(120);not null" json:"full_name"`
	PasswordHash string   `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	Role         UserRole `gorm:"column:role;type:varchar(20);not null;default:'teacher'" json:"role"`
	IsActive     bool     `gorm:"column:is_active;not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

func (m *User) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return nil
}

func (m *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(plain)) == nil
}
