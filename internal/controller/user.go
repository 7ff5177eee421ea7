package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"jobkhoj-backend/internal/access"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

// ListUsers returns all accounts, filtered by role or search term. Admin only.
func (uc *UserController) ListUsers(c *gin.Context) {
	page, limit := pagination(c)

	query := uc.DB.Model(&model.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to count users: %s", err.Error())})
		return
	}

	var users []model.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to fetch users: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"page":  page,
		"pages": pages(total, limit),
		"total": total,
	})
}

// GetUserAnalytics returns platform counters for the admin dashboard.
func (uc *UserController) GetUserAnalytics(c *gin.Context) {
	type roleCount struct {
		Role  string `json:"role"`
		Count int64  `json:"count"`
	}

	var byRole []roleCount
	if err := uc.DB.Model(&model.User{}).
		Select("role, count(*) as count").Group("role").
		Scan(&byRole).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to aggregate users: %s", err.Error())})
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	var newUsers int64
	if err := uc.DB.Model(&model.User{}).
		Where("created_at >= ?", thirtyDaysAgo).
		Count(&newUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to count new users: %s", err.Error())})
		return
	}

	var activeJobs int64
	if err := uc.DB.Model(&model.Job{}).
		Where("status = ?", model.JobStatusActive).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now()).
		Count(&activeJobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to count active jobs: %s", err.Error())})
		return
	}

	var totalApplications int64
	if err := uc.DB.Model(&model.Application{}).Count(&totalApplications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to count applications: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_count_by_role":       byRole,
		"new_users_last_30_days":   newUsers,
		"active_jobs_count":        activeJobs,
		"total_applications_count": totalApplications,
	})
}

// GetUserByID returns a user record. Admins and the user themself get the
// full profile; everyone else gets the restricted projection.
func (uc *UserController) GetUserByID(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	target, ok := uc.findUser(c)
	if !ok {
		return
	}

	if !access.CanViewFullProfile(actor, target) {
		c.JSON(http.StatusOK, target.Restricted())
		return
	}

	if err := uc.DB.Preload("Experience").Preload("Education").
		First(&target, "id = ?", target.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, target)
}

// editableUserInfo is the subset of account fields an update request may touch.
type editableUserInfo struct {
	Name               string   `json:"name"`
	Resume             string   `json:"resume"`
	Skills             []string `json:"skills"`
	CompanyName        string   `json:"company_name"`
	CompanyDescription string   `json:"company_description"`
	CompanyWebsite     string   `json:"company_website"`
	Role               string   `json:"role"`
}

// UpdateUser updates an account. Allowed for the user themself or an admin;
// the role field is silently stripped for non-admin actors so nobody can
// promote themself.
func (uc *UserController) UpdateUser(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	target, ok := uc.findUser(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionUpdateUser, access.Resource{User: &target}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to update this user"})
		return
	}

	var info editableUserInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %s", err.Error())})
		return
	}

	if info.Role != "" && !access.CanChangeRole(actor) {
		info.Role = ""
	}
	if info.Role != "" && info.Role != model.RoleAdmin &&
		info.Role != model.RoleEmployer && info.Role != model.RoleJobseeker {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Role '%s' not allowed", info.Role)})
		return
	}

	updated := model.User{
		Name:               info.Name,
		Resume:             info.Resume,
		Skills:             pq.StringArray(info.Skills),
		CompanyName:        info.CompanyName,
		CompanyDescription: info.CompanyDescription,
		CompanyWebsite:     info.CompanyWebsite,
		Role:               info.Role,
	}
	utilities.MergeNonEmpty(&target, &updated)

	if err := uc.DB.Save(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to update user: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, target)
}

// UpdateUserSkills replaces the skill list on a jobseeker's own profile.
func (uc *UserController) UpdateUserSkills(c *gin.Context) {
	_, user := actorFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	target, ok := uc.findUser(c)
	if !ok {
		return
	}

	if target.ID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to update this user's skills"})
		return
	}

	var body struct {
		Skills []string `json:"skills" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Skills must be provided"})
		return
	}

	if err := uc.DB.Model(&target).Update("skills", pq.StringArray(body.Skills)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to update skills: %s", err.Error())})
		return
	}

	target.Skills = pq.StringArray(body.Skills)
	c.JSON(http.StatusOK, target)
}

// DeleteUser removes an account and, in the same transaction, everything it
// owns: an employer's jobs and those jobs' applications, or a jobseeker's
// applications. Admin only.
func (uc *UserController) DeleteUser(c *gin.Context) {
	target, ok := uc.findUser(c)
	if !ok {
		return
	}

	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		switch target.Role {
		case model.RoleEmployer:
			jobIDs := tx.Model(&model.Job{}).Select("id").Where("posted_by_id = ?", target.ID)
			if err := tx.Where("job_id IN (?)", jobIDs).Delete(&model.Application{}).Error; err != nil {
				return err
			}
			if err := tx.Where("posted_by_id = ?", target.ID).Delete(&model.Job{}).Error; err != nil {
				return err
			}
		case model.RoleJobseeker:
			if err := tx.Where("applicant_id = ?", target.ID).Delete(&model.Application{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&target).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to delete user: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "User removed"})
}

// findUser loads the user referenced by the :id path param, replying 404/500
// on failure.
func (uc *UserController) findUser(c *gin.Context) (model.User, bool) {
	id := c.Param("id")

	var user model.User
	if err := uc.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return user, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error())})
		return user, false
	}
	return user, true
}
