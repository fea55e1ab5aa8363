package persistence

import (
	"context"
	"errors"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"gorm.io/gorm"
)

// UserRepository reads the user directory that owns roles.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.IUser {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, model.NotFound("User not found")
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("userId", id).Error("Error while fetching user")
		return user, err
	}
	return user, nil
}
