package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleAuthor UserRole = "AUTHOR"
	UserRoleUser   UserRole = "USER"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseUserRole accepts any letter case ("author", "Author", "AUTHOR").
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case UserRoleAdmin:
		return UserRoleAdmin, nil
	case UserRoleAuthor:
		return UserRoleAuthor, nil
	case UserRoleUser:
		return UserRoleUser, nil
	}
	return "", ErrUnknownRole
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:16;not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Book is an uploaded book. The uploader is referenced by UploaderID; the
// "author" JSON field is the uploader's username resolved at query time.
type Book struct {
	ID         uint   `gorm:"primaryKey"`
	Title      string `gorm:"size:512;not null"`
	Year       int    `gorm:"not null"`
	FileName   string `gorm:"size:255;not null"`
	FilePath   string `gorm:"size:1024;not null;index"`
	UploaderID uint   `gorm:"index;not null"`
	Uploader   User   `gorm:"foreignKey:UploaderID;constraint:OnDelete:RESTRICT"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Book) TableName() string {
	return "books"
}

type bookJSON struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

func (b Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookJSON{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Uploader.Username,
		Year:     b.Year,
		FileName: b.FileName,
		FilePath: b.FilePath,
	})
}

// Author is a catalog entry, unrelated to who uploaded which book.
type Author struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:256;not null"`
	Bio         string `gorm:"type:text"`
	CreatedByID uint   `gorm:"index"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Author) TableName() string {
	return "authors"
}

type authorJSON struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	CreatedBy string `json:"createdBy"`
}

func (a Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(authorJSON{
		ID:        a.ID,
		Name:      a.Name,
		Bio:       a.Bio,
		CreatedBy: a.CreatedBy.Username,
	})
}

type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Subject) TableName() string {
	return "subjects"
}
