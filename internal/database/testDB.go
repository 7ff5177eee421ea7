package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded users and jobs for handler tests.
var (
	TestAdminUser  m.User
	TestJobseeker1 m.User
	TestJobseeker2 m.User
	TestEmployer1  m.User
	TestEmployer2  m.User

	// Shared plain password of every seeded user
	TestSeedPassword = "SeedPass123!"

	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample jobseekers, employers, and job postings if empty.
func seedTestData(db *DBinstanceStruct) error {
	// Ignore any admin created during NewDBInstance
	var userCount int64
	if err := db.Model(&m.User{}).Where("role <> ?", m.RoleAdmin).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	exp1Start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	exp1End := exp1Start.AddDate(0, 0, 5*365)
	exp2Start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	users := []m.User{
		{
			Name:     "Seed Admin",
			Email:    "admin@example.com",
			Password: hashedPwd,
			Role:     m.RoleAdmin,
		},
		{
			Name:     "Alice Seeker",
			Email:    "alice@example.com",
			Password: hashedPwd,
			Role:     m.RoleJobseeker,
			Skills:   pq.StringArray{"react", "node.js", "sql"},
			Experience: []m.Experience{
				{Company: "Acme", Position: "Developer", StartDate: &exp1Start, EndDate: &exp1End},
			},
			Education: []m.Education{
				{Institution: "State University", Degree: "BSc", Field: "Computer Science"},
				{Institution: "State University", Degree: "MSc", Field: "Software Engineering"},
			},
		},
		{
			Name:     "Bob Seeker",
			Email:    "bob@example.com",
			Password: hashedPwd,
			Role:     m.RoleJobseeker,
			Skills:   pq.StringArray{"python", "django"},
			Experience: []m.Experience{
				{Company: "Initech", Position: "Analyst", StartDate: &exp2Start},
			},
		},
		{
			Name:        "Carol Employer",
			Email:       "carol@technova.example.com",
			Password:    hashedPwd,
			Role:        m.RoleEmployer,
			CompanyName: "TechNova",
		},
		{
			Name:        "Dave Employer",
			Email:       "dave@dataforge.example.com",
			Password:    hashedPwd,
			Role:        m.RoleEmployer,
			CompanyName: "DataForge",
		},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Email {
		case "admin@example.com":
			TestAdminUser = u
		case "alice@example.com":
			TestJobseeker1 = u
		case "bob@example.com":
			TestJobseeker2 = u
		case "carol@technova.example.com":
			TestEmployer1 = u
		case "dave@dataforge.example.com":
			TestEmployer2 = u
		}
	}

	exp1 := time.Now().AddDate(0, 1, 0)
	exp2 := time.Now().AddDate(0, 2, 0)
	exp3 := time.Now().AddDate(0, 3, 0)

	jobs := []m.Job{
		{
			PostedByID: TestEmployer1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:           "Backend Engineer",
				Company:         "TechNova",
				Location:        "Kathmandu (Hybrid)",
				JobType:         "Full-time",
				Salary:          90000,
				Description:     "Work on Go microservices and database layers.",
				Skills:          pq.StringArray{"React", "Node.js"},
				ExperienceLevel: "Mid Level",
				ExpiresAt:       &exp1,
			},
		},
		{
			PostedByID: TestEmployer1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:           "Frontend Developer",
				Company:         "TechNova",
				Location:        "Remote",
				JobType:         "Contract",
				Salary:          60000,
				Description:     "Build a component library in React.",
				Skills:          pq.StringArray{"react", "typescript"},
				ExperienceLevel: "Entry Level",
				ExpiresAt:       &exp2,
			},
		},
		{
			PostedByID: TestEmployer2.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:           "Data Analyst",
				Company:         "DataForge",
				Location:        "Pokhara (On-site)",
				JobType:         "Full-time",
				Salary:          55000,
				Description:     "Support data cleansing and dashboard creation.",
				Skills:          pq.StringArray{"sql", "python"},
				ExperienceLevel: "Entry Level",
				ExpiresAt:       &exp3,
			},
		},
	}

	for i := range jobs {
		jobs[i].ApplyDefaults(time.Now())
	}

	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestJob3 = jobs[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Preload("Experience").Preload("Education").Where("email IN ?", []string{
		"admin@example.com", "alice@example.com", "bob@example.com",
		"carol@technova.example.com", "dave@dataforge.example.com",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Email {
		case "admin@example.com":
			TestAdminUser = u
		case "alice@example.com":
			TestJobseeker1 = u
		case "bob@example.com":
			TestJobseeker2 = u
		case "carol@technova.example.com":
			TestEmployer1 = u
		case "dave@dataforge.example.com":
			TestEmployer2 = u
		}
	}

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(3).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}
