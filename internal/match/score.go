// Package match computes the fit score between a job posting and a
// jobseeker profile. Everything here is pure: the caller loads the records,
// match only does arithmetic on them.
package match

import (
	"math"
	"strings"

	"jobkhoj-backend/internal/model"
)

// Component weights. They sum to 100, so the total never needs re-clamping.
const (
	skillWeight      = 50.0
	experienceWeight = 30.0
	educationWeight  = 20.0

	// experience past this many years no longer raises the score
	experienceCapYears = 10.0
	// credentials past this count no longer raise the score
	educationCap = 3.0

	hoursPerYear = 24 * 365
)

// Score returns the fit score of applicant against job as an integer in
// [0, 100]. It is deterministic and total: missing or malformed profile data
// degrades the affected component to zero instead of failing.
func Score(job model.Job, applicant model.User) int {
	total := skillComponent(job.Skills, applicant.Skills) +
		experienceComponent(applicant.Experience) +
		educationComponent(applicant.Education)
	return int(math.Round(total))
}

// skillComponent scores the fraction of required skills the applicant
// covers. A requirement counts as covered when it contains an applicant
// skill or an applicant skill contains it, case-insensitively. The loose
// containment is deliberate so "React" still matches "ReactJS".
func skillComponent(required, offered []string) float64 {
	if len(required) == 0 || len(offered) == 0 {
		return 0
	}

	matched := 0
	for _, req := range required {
		if matchesAny(req, offered) {
			matched++
		}
	}
	return float64(matched) / float64(len(required)) * skillWeight
}

// SkillsOverlap reports whether at least one required skill is covered by
// the offered skills, under the same loose containment rule the score uses.
func SkillsOverlap(required, offered []string) bool {
	for _, req := range required {
		if matchesAny(req, offered) {
			return true
		}
	}
	return false
}

func matchesAny(required string, offered []string) bool {
	req := strings.ToLower(required)
	for _, skill := range offered {
		s := strings.ToLower(skill)
		if strings.Contains(s, req) || strings.Contains(req, s) {
			return true
		}
	}
	return false
}

// experienceComponent sums the duration of dated experience entries,
// capped at ten years. Entries missing either date, and entries whose end
// precedes their start, contribute nothing.
func experienceComponent(entries []model.Experience) float64 {
	if len(entries) == 0 {
		return 0
	}

	var years float64
	for _, e := range entries {
		years += entryYears(e)
	}
	return math.Min(years/experienceCapYears, 1.0) * experienceWeight
}

func entryYears(e model.Experience) float64 {
	if e.StartDate == nil || e.EndDate == nil {
		return 0
	}
	hours := e.EndDate.Sub(*e.StartDate).Hours()
	if hours <= 0 {
		return 0
	}
	return hours / hoursPerYear
}

// educationComponent raises the score monotonically with the number of
// listed credentials, topping out at three. Degree type and field are not
// inspected.
func educationComponent(entries []model.Education) float64 {
	if len(entries) == 0 {
		return 0
	}
	return math.Min(float64(len(entries))/educationCap, 1.0) * educationWeight
}
