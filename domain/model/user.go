package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;column:id"`
	Username  string    `json:"username" gorm:"column:username"`
	Email     string    `json:"email" gorm:"column:email"`
	Role      Role      `json:"role" gorm:"column:role"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

// UserClaims is the bearer token payload issued by the identity service.
type UserClaims struct {
	UserID string `json:"_id"`
	Role   Role   `json:"role"`
	jwt.StandardClaims
}
