// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobkhoj-backend/internal/model"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON shape of plain confirmation replies.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context. It returns an error
// when the middleware did not attach a user or the value has the wrong type.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("user information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("failed to assert type")
	}
	return user, nil
}

// CreateAdmin creates an admin user with the given credentials in the provided database.
func CreateAdmin(name, email, password string, db *gorm.DB) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     model.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// MergeNonEmpty help merge struct with non-empty field
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}
