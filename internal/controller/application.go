package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"jobkhoj-backend/internal/access"
	"jobkhoj-backend/internal/lifecycle"
	"jobkhoj-backend/internal/match"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

// uniqueViolation is the postgres error code raised when the composite
// unique index on (job_id, applicant_id) rejects a concurrent duplicate.
const uniqueViolation = "23505"

// CreateApplicationHandler submits an application to a job. Duplicate
// submissions are rejected with a distinct message, and the fit score is
// computed and persisted as part of creation.
func (ac *ApplicationController) CreateApplicationHandler(c *gin.Context) {
	actor, user := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	var body struct {
		JobID       uint   `json:"job_id" binding:"required"`
		CoverLetter string `json:"cover_letter"`
		Resume      string `json:"resume"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %s", err.Error())})
		return
	}

	if !access.CanPerform(actor, access.ActionCreateApplication, access.Resource{}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only jobseekers can apply to jobs"})
		return
	}

	var job model.Job
	if err := ac.DB.Where("id = ?", body.JobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error())})
		return
	}

	// Advisory duplicate check before creation; the unique index backs it up
	// against concurrent submissions.
	var existing *model.Application
	var found model.Application
	err := ac.DB.Where("job_id = ? AND applicant_id = ?", job.ID, user.ID).First(&found).Error
	switch {
	case err == nil:
		existing = &found
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to check existing application"})
		return
	}

	if err := lifecycle.AssertCreatable(*user, existing); err != nil {
		if errors.Is(err, lifecycle.ErrDuplicateApplication) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "You have already applied for this job"})
			return
		}
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Load the full profile so scoring sees experience and education.
	var applicant model.User
	if err := ac.DB.Preload("Experience").Preload("Education").
		First(&applicant, "id = ?", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error())})
		return
	}

	resume := body.Resume
	if resume == "" {
		resume = applicant.Resume
	}

	application := model.Application{
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		Resume:      resume,
		CoverLetter: body.CoverLetter,
		Status:      model.ApplicationStatusApplied,
		Score:       match.Score(job, applicant),
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "You have already applied for this job"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, application)
}

// ListApplications returns the applications visible to the authenticated
// user: their own for jobseekers, those on their postings for employers,
// and everything for admins.
func (ac *ApplicationController) ListApplications(c *gin.Context) {
	_, user := actorFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	page, limit := pagination(c)

	query := ac.DB.Model(&model.Application{})

	switch user.Role {
	case model.RoleJobseeker:
		query = query.Where("applicant_id = ?", user.ID)
	case model.RoleEmployer:
		query = query.Where(
			"job_id IN (?)",
			ac.DB.Model(&model.Job{}).Select("id").Where("posted_by_id = ?", user.ID),
		)
	case model.RoleAdmin:
		// No scoping
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to count applications: %s", err.Error())})
		return
	}

	var applications []model.Application
	if err := query.Preload("Job").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"page":         page,
		"pages":        pages(total, limit),
		"total":        total,
	})
}

// GetApplicationByID returns a single application to its applicant, the
// owner of the referenced job, or an admin.
func (ac *ApplicationController) GetApplicationByID(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	application, job, ok := ac.findApplication(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionViewApplication, access.Resource{Application: &application, Job: &job}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to view this application"})
		return
	}

	if err := ac.DB.Preload("Job").Preload("Notes").
		Preload("Applicant").Preload("Applicant.Experience").Preload("Applicant.Education").
		First(&application, "id = ?", application.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, application)
}

// UpdateApplicationStatus moves an application through the review flow. Only
// the owner of the referenced job or an admin may do this; the applicant
// themself never can.
func (ac *ApplicationController) UpdateApplicationStatus(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !lifecycle.ValidStatus(body.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid status. Must be one of: Applied, Reviewed, Interviewed, Rejected, Accepted",
		})
		return
	}

	application, job, ok := ac.findApplication(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionUpdateApplicationStatus, access.Resource{Application: &application, Job: &job}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to update this application"})
		return
	}

	if !lifecycle.CanTransition(application.Status, body.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid status transition"})
		return
	}

	updates := map[string]interface{}{
		"status":     body.Status,
		"updated_at": time.Now(),
	}
	if err := ac.DB.Model(&application).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to update application: %s", err.Error())})
		return
	}

	application.Status = body.Status
	c.JSON(http.StatusOK, application)
}

// AddApplicationNote appends a reviewer note to an application. Notes are
// never edited or removed.
func (ac *ApplicationController) AddApplicationNote(c *gin.Context) {
	actor, user := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Note content must be provided"})
		return
	}

	application, job, ok := ac.findApplication(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionAddApplicationNote, access.Resource{Application: &application, Job: &job}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to add notes to this application"})
		return
	}

	note := model.ApplicationNote{
		ApplicationID: application.ID,
		AuthorID:      user.ID,
		Content:       body.Content,
	}
	if err := ac.DB.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to add note: %s", err.Error())})
		return
	}

	if err := ac.DB.Preload("Notes").First(&application, "id = ?", application.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, application)
}

// findApplication loads the application referenced by the :id path param
// together with its job, replying 404/500 on failure.
func (ac *ApplicationController) findApplication(c *gin.Context) (model.Application, model.Job, bool) {
	id := c.Param("id")

	var application model.Application
	var job model.Job

	if err := ac.DB.Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return application, job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error())})
		return application, job, false
	}

	if err := ac.DB.Where("id = ?", application.JobID).First(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve referenced job: %s", err.Error())})
		return application, job, false
	}

	return application, job, true
}
