package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a parent/guardian account. Children play under child profiles
// attached to the account.
type User struct {
	ID        uint `gorm:"primaryKey"`
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Daily mood-check reminder, UTC "HH:MM". Empty disables reminders.
	ReminderTime string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ChildProfile is one child under a parent account. Game sessions and
// results hang off the profile, dashboards off the parent.
type ChildProfile struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	User      User `gorm:"foreignKey:UserID"`
	Name      string
	AgeYears  int
	Avatar    string
	CreatedAt time.Time
}
