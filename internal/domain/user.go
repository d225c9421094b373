package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleNormal UserRole = "normal" // Обычный пользователь (водитель и/или пассажир)
	RoleAdmin  UserRole = "admin"  // Администратор системы
)

// User - центральная сущность системы
// Пользователь владеет автомобилями, публикует поездки и бронирует места
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Никогда не возвращаем в JSON
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.Name == "" || u.Surname == "" {
		return ErrInvalidUserData
	}
	if u.Role != RoleNormal && u.Role != RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}
