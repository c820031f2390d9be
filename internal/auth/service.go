package auth

import (
	"karavan-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserFinder abstracts user lookup by email+password (for production GORM or test doubles).
type UserFinder interface {
	FindByEmailAndPassword(email, password string) (*models.User, error)
}

// GormUserFinder implements UserFinder using GORM and bcrypt.
type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByEmailAndPassword(email, password string) (*models.User, error) {
	return LoginUser(g.DB, LoginInput{Email: email, Password: password})
}

// LoginUser finds the user by email and verifies the password. Deactivated
// accounts cannot log in.
func LoginUser(db *gorm.DB, input LoginInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u models.User
	if err := db.Where("email = ?", input.Email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}
	return &u, nil
}

// VerifyUser validates the session principal for /me.
func VerifyUser(sessionUser interface{}) (*models.Principal, error) {
	p, ok := models.PrincipalFromSession(sessionUser)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return p, nil
}
