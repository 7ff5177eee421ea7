// Package controller contain the gin handlers for jobs, applications, and users.
package controller

import (
	"jobkhoj-backend/internal/access"
	"jobkhoj-backend/internal/database"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"

	"github.com/gin-gonic/gin"
)

// JobController struct holds the database connection for job-related operations.
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController with the provided database connection.
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{DB: db}
}

// ApplicationController holds the database connection for application operations.
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{DB: db}
}

// UserController holds the database connection for user account operations.
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController creates a new UserController with the provided database connection.
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{DB: db}
}

// actorFrom returns the access actor for the authenticated user on the
// context, or nil when the request is anonymous.
func actorFrom(c *gin.Context) (*access.Actor, *model.User) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		return nil, nil
	}
	actor := access.ActorFor(user)
	return &actor, &user
}
