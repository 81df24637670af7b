package repository

import (
	"context"

	"synapse-go/internal/database"
	"synapse-go/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
	}
	result := database.DB.Create(user)
	return user, result.Error
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "email = ?", email)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

func CreateChildProfile(ctx context.Context, userID uint, name string, ageYears int, avatar string) (*models.ChildProfile, error) {
	child := &models.ChildProfile{
		UserID:   userID,
		Name:     name,
		AgeYears: ageYears,
		Avatar:   avatar,
	}
	result := database.DB.WithContext(ctx).Create(child)
	return child, result.Error
}

func GetChildProfiles(ctx context.Context, userID uint) ([]models.ChildProfile, error) {
	var children []models.ChildProfile
	err := database.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&children).Error
	return children, err
}

// GetChildProfile fetches one child, scoped to the owning account.
func GetChildProfile(ctx context.Context, userID, childID uint) (*models.ChildProfile, error) {
	var child models.ChildProfile
	err := database.DB.WithContext(ctx).Where("user_id = ? AND id = ?", userID, childID).First(&child).Error
	return &child, err
}
