package controller

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jobkhoj-backend/internal/access"
	"jobkhoj-backend/internal/match"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

// matchingJobsLimit caps the recommendation list size.
const matchingJobsLimit = 10

// CreateJobHandler handles the creation of a new job posting by an employer.
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	actor, user := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	if !access.CanPerform(actor, access.ActionCreateJob, access.Resource{}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only employers can post jobs"})
		return
	}

	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %s", err.Error())})
		return
	}

	job := model.Job{
		PostedByID:      user.ID,
		EditableJobInfo: info,
	}
	job.ApplyDefaults(time.Now())

	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobs fetches active, unexpired job postings with filters, sorting, and
// pagination. The endpoint is public.
func (jc *JobController) GetJobs(c *gin.Context) {
	page, limit := pagination(c)

	query := jc.DB.Model(&model.Job{}).
		Where("status = ?", model.JobStatusActive).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now())

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"title ILIKE ? OR company ILIKE ? OR description ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if jobType := c.Query("job_type"); jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}
	if lvl := c.Query("experience_level"); lvl != "" {
		query = query.Where("experience_level = ?", lvl)
	}

	switch c.Query("sort") {
	case "date-asc":
		query = query.Order("created_at ASC")
	case "salary-desc":
		query = query.Order("salary DESC")
	case "salary-asc":
		query = query.Order("salary ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count jobs: %s", err.Error()),
		})
		return
	}

	var jobs []model.Job
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch jobs: %s", err.Error()),
		})
		return
	}

	jc.bumpViews(jobs)

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"page":  page,
		"pages": pages(total, limit),
		"total": total,
	})
}

// GetMyJobs returns the postings owned by the authenticated employer,
// optionally filtered by status.
func (jc *JobController) GetMyJobs(c *gin.Context) {
	_, user := actorFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	query := jc.DB.Where("posted_by_id = ?", user.ID).Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		normalized := strings.ToUpper(status[:1]) + strings.ToLower(status[1:])
		if !model.ValidJobStatus(normalized) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Invalid status. Must be one of: Active, Inactive, Filled",
			})
			return
		}
		query = query.Where("status = ?", normalized)
	}

	var jobs []model.Job
	if err := query.Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch jobs: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetMatchingJobs recommends active unexpired postings whose required
// skills overlap the authenticated jobseeker's skills, best fit first.
func (jc *JobController) GetMatchingJobs(c *gin.Context) {
	_, user := actorFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	// Load the full profile so ranking sees experience and education.
	var seeker model.User
	if err := jc.DB.Preload("Experience").Preload("Education").
		First(&seeker, "id = ?", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error())})
		return
	}

	if len(seeker.Skills) == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Add skills to your profile to get job matches"})
		return
	}

	var jobs []model.Job
	if err := jc.DB.
		Where("status = ?", model.JobStatusActive).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now()).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to fetch jobs: %s", err.Error())})
		return
	}

	type scoredJob struct {
		job   model.Job
		score int
	}
	scored := make([]scoredJob, 0, len(jobs))
	for _, job := range jobs {
		if match.SkillsOverlap(job.Skills, seeker.Skills) {
			scored = append(scored, scoredJob{job: job, score: match.Score(job, seeker)})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > matchingJobsLimit {
		scored = scored[:matchingJobsLimit]
	}

	matched := make([]model.Job, 0, len(scored))
	for _, s := range scored {
		matched = append(matched, s.job)
	}

	c.JSON(http.StatusOK, matched)
}

// GetJobByID returns a single posting. Anyone may view an active unexpired
// posting; the owner and admins may view it in any state.
func (jc *JobController) GetJobByID(c *gin.Context) {
	actor, _ := actorFrom(c)

	job, ok := jc.findJob(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionViewJob, access.Resource{Job: &job}) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	jc.bumpViews([]model.Job{job})
	job.Views++

	c.JSON(http.StatusOK, job)
}

// EditJob allows the posting owner or an admin to update a job posting.
func (jc *JobController) EditJob(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	job, ok := jc.findJob(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionUpdateJob, access.Resource{Job: &job}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to edit this job"})
		return
	}

	var updated model.EditableJobInfo
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to parse request body: %s", err.Error())})
		return
	}

	if err := jc.DB.Model(&job).Updates(model.Job{EditableJobInfo: updated}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to update job: %s", err.Error())})
		return
	}

	if err := jc.DB.First(&job, "id = ?", job.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve updated job: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJobStatus allows the posting owner or an admin to change the job status.
func (jc *JobController) UpdateJobStatus(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !model.ValidJobStatus(body.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid status. Must be one of: Active, Inactive, Filled",
		})
		return
	}

	job, ok := jc.findJob(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionChangeJobStatus, access.Resource{Job: &job}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to change this job's status"})
		return
	}

	if err := jc.DB.Model(&job).Update("status", body.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to update job status: %s", err.Error())})
		return
	}

	job.Status = body.Status
	c.JSON(http.StatusOK, job)
}

// DeleteJob removes a posting and every application submitted to it, in one
// transaction, so no orphaned application survives the posting.
func (jc *JobController) DeleteJob(c *gin.Context) {
	actor, _ := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User information not provided"})
		return
	}

	job, ok := jc.findJob(c)
	if !ok {
		return
	}

	if !access.CanPerform(actor, access.ActionDeleteJob, access.Resource{Job: &job}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to delete this job"})
		return
	}

	err := jc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to delete job: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job removed successfully"})
}

// findJob loads the job referenced by the :id path param, replying 404/500
// on failure.
func (jc *JobController) findJob(c *gin.Context) (model.Job, bool) {
	id := c.Param("id")

	var job model.Job
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error())})
		return job, false
	}
	return job, true
}

// bumpViews increments the view counter of the given postings. Failures are
// logged and otherwise ignored; a missed view count never fails a read.
func (jc *JobController) bumpViews(jobs []model.Job) {
	if len(jobs) == 0 {
		return
	}
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	if err := jc.DB.Model(&model.Job{}).Where("id IN ?", ids).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		log.Warnf("failed to bump job views: %v", err)
	}
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func pages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
