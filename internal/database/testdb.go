package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/shadowkingaftab/connect-hire/internal/model"
	"github.com/shadowkingaftab/connect-hire/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported test users & profiles
var (
	TestAdminUser     m.User
	TestUserSeeker1   m.User
	TestUserSeeker2   m.User
	TestUserEmployer1 m.User
	TestUserEmployer2 m.User
	TestSeeker1       m.SeekerUser
	TestSeeker2       m.SeekerUser
	TestCompany1      m.Company
	TestCompany2      m.Company
	TestDomainTech    m.Domain

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded jobs
	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

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

	// Seed sample seekers, employers, catalog and jobs
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample seeker and employer records (2 each) if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got create during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	// Base data
	tels := []*string{ptr("0100000001"), ptr("0100000002"), ptr("0200000001"), ptr("0200000002"), ptr("0300000001")}
	emails := []*string{ptr("seeker1@example.com"), ptr("seeker2@example.com"), ptr("employer1@example.com"), ptr("employer2@example.com"), ptr("admin@example.com")}
	userSpecs := []struct {
		username string
		email    *string
		tel      *string
		role     string
	}{
		{"job_seeker_1", emails[0], tels[0], m.RoleJobSeeker},
		{"job_seeker_2", emails[1], tels[1], m.RoleJobSeeker},
		{"employer_user_1", emails[2], tels[2], m.RoleEmployer},
		{"employer_user_2", emails[3], tels[3], m.RoleEmployer},
		{"admin_user", emails[4], tels[4], m.RoleAdmin},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			ContactInfo: m.ContactInfo{
				Email: s.email,
				Tel:   s.tel,
			},
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	// Map created users to exported variables
	for _, u := range users {
		switch u.Username {
		case "job_seeker_1":
			TestUserSeeker1 = u
		case "job_seeker_2":
			TestUserSeeker2 = u
		case "employer_user_1":
			TestUserEmployer1 = u
		case "employer_user_2":
			TestUserEmployer2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	age23, age25 := uint(23), uint(25)
	exp2, exp5 := uint(2), uint(5)

	seekerProfiles := []m.SeekerUser{
		{
			UserID: TestUserSeeker1.ID,
			EditableSeekerInfo: m.EditableSeekerInfo{
				FirstName:  "Alice",
				LastName:   "Nguyen",
				Age:        &age23,
				Experience: &exp2,
				SoftSkill:  pq.StringArray{"Teamwork", "Communication"},
			},
		},
		{
			UserID: TestUserSeeker2.ID,
			EditableSeekerInfo: m.EditableSeekerInfo{
				FirstName:  "Bob",
				LastName:   "Somsak",
				Age:        &age25,
				Experience: &exp5,
				SoftSkill:  pq.StringArray{"Problem Solving", "Adaptability"},
			},
		},
	}
	if err := db.Create(&seekerProfiles).Error; err != nil {
		return err
	}

	domains := []m.Domain{
		{Name: "Technology", Desc: "Software, hardware and IT services"},
		{Name: "Healthcare", Desc: "Hospitals, pharma and medical devices"},
	}
	if err := db.Create(&domains).Error; err != nil {
		return err
	}
	TestDomainTech = domains[0]

	sizeM, sizeL := "M", "L"

	companies := []m.Company{
		{
			UserID:   TestUserEmployer1.ID,
			DomainID: &domains[0].ID,
			EditableCompanyInfo: m.EditableCompanyInfo{
				Name:     "TechNova",
				Overview: "Innovative platform solutions",
				Location: "Bangkok",
				Size:     &sizeM,
			},
		},
		{
			UserID:   TestUserEmployer2.ID,
			DomainID: &domains[0].ID,
			EditableCompanyInfo: m.EditableCompanyInfo{
				Name:     "DataForge",
				Overview: "Data analytics consulting",
				Location: "Chiang Mai",
				Size:     &sizeL,
			},
		},
	}
	if err := db.Create(&companies).Error; err != nil {
		return err
	}

	// Assign exported profile structs
	TestSeeker1 = seekerProfiles[0]
	TestSeeker2 = seekerProfiles[1]
	TestCompany1 = companies[0]
	TestCompany2 = companies[1]

	// Seed jobs (only if none exist yet)
	var jobCount int64
	if err := db.Model(&m.Job{}).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount == 0 {
		active := true
		inactive := false

		jobs := []m.Job{
			{
				EmployerID: TestCompany1.UserID,
				EditableJobInfo: m.EditableJobInfo{
					Title:         "Backend Engineer",
					Desc:          "Work on Go microservices and database layers.",
					Req:           "Go basics; SQL familiarity",
					MinExperience: 1,
					Location:      "Bangkok (Hybrid)",
					Type:          "Full-time",
					Salary:        "60000 THB",
					Tags:          []string{"go", "backend", "api"},
					Active:        &active,
				},
			},
			{
				EmployerID: TestCompany1.UserID,
				EditableJobInfo: m.EditableJobInfo{
					Title:         "Frontend Developer",
					Desc:          "Build the applicant dashboard in React.",
					Req:           "JS/TS fundamentals",
					MinExperience: 0,
					Location:      "Remote",
					Type:          "Contract",
					Salary:        "45000 THB",
					Tags:          []string{"react", "typescript", "ui"},
					Active:        &active,
				},
			},
			{
				EmployerID: TestCompany2.UserID,
				EditableJobInfo: m.EditableJobInfo{
					Title:         "Data Analyst",
					Desc:          "Support data cleansing and dashboard creation.",
					Req:           "SQL; basic statistics",
					MinExperience: 2,
					Location:      "Chiang Mai (On-site)",
					Type:          "Full-time",
					Salary:        "50000 THB",
					Tags:          []string{"data", "sql", "analytics"},
					Active:        &inactive,
				},
			},
		}

		if err := db.Create(&jobs).Error; err != nil {
			return err
		}
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

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"job_seeker_1", "job_seeker_2", "employer_user_1", "employer_user_2",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "job_seeker_1":
			TestUserSeeker1 = u
		case "job_seeker_2":
			TestUserSeeker2 = u
		case "employer_user_1":
			TestUserEmployer1 = u
		case "employer_user_2":
			TestUserEmployer2 = u
		}
	}

	// Load seeker profiles
	_ = db.First(&TestSeeker1, "user_id = ?", TestUserSeeker1.ID).Error
	_ = db.First(&TestSeeker2, "user_id = ?", TestUserSeeker2.ID).Error

	// Load company profiles
	_ = db.First(&TestCompany1, "user_id = ?", TestUserEmployer1.ID).Error
	_ = db.First(&TestCompany2, "user_id = ?", TestUserEmployer2.ID).Error

	_ = db.First(&TestDomainTech, "name = ?", "Technology").Error

	// Load first three jobs deterministically
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

// ptr helper
func ptr[T any](v T) *T { return &v }
