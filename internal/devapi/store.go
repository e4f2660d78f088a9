package devapi

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/models"
)

// Account is a user allowed to log in to the admin area
type Account struct {
	ID           string      `gorm:"primaryKey"`
	Email        string      `gorm:"uniqueIndex;not null"`
	PasswordHash string      `gorm:"not null"`
	Role         models.Role `gorm:"not null"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
}

// BeforeCreate assigns a ULID primary key
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = ulid.Make().String()
	}
	return nil
}

// TrafficLight is one installed traffic light; /traffic aggregates them
type TrafficLight struct {
	ID          uint   `gorm:"primaryKey"`
	Address     string `gorm:"not null"`
	LightType   string `gorm:"not null"`
	InstallYear int    `gorm:"not null"`
	Status      string `gorm:"default:active"`
}

// openDatabase opens a private in-memory database and migrates the schema
func openDatabase() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(
		&Account{},
		&TrafficLight{},
		&models.TeamMember{},
		&models.NewsItem{},
		&models.Service{},
		&models.Project{},
		&models.Statistics{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// seed creates the configured accounts and sample public content
func seed(db *gorm.DB, cfg config.DevAPIConfig) error {
	accounts := []struct {
		email, password string
		role            models.Role
	}{
		{cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin},
		{cfg.EditorEmail, cfg.EditorPassword, models.RoleEditor},
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := db.Create(&Account{Email: a.email, PasswordHash: string(hash), Role: a.role}).Error; err != nil {
			return fmt.Errorf("failed to create account %s: %w", a.email, err)
		}
	}

	photo := "/static/team/director.jpg"
	team := []models.TeamMember{
		{Name: "Irina Volkova", Position: "Director", Experience: "15 years", PhotoURL: &photo},
		{Name: "Pavel Orlov", Position: "Chief engineer", Experience: "9 years"},
		{Name: "Olga Smirnova", Position: "Traffic analyst", Experience: "4 years"},
	}

	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	news := []models.NewsItem{
		{Title: "Adaptive lights on Gagarin avenue", Content: "Twelve intersections switched to adaptive control.", Tag: "infrastructure", Date: day},
		{Title: "Winter evacuation rules", Content: "Cars blocking snow removal will be towed.", Tag: "evacuation", Date: day.AddDate(0, 0, 14)},
	}

	services := []models.Service{
		{Title: "Vehicle evacuation", Description: "Towing to the impound lot.", Price: 3000, Category: "evacuation"},
		{Title: "Impound storage", Description: "Per day of storage.", Price: 450, Category: "evacuation"},
		{Title: "Traffic scheme approval", Description: "Review of temporary traffic schemes.", Price: 0, Category: "consulting"},
	}

	projects := []models.Project{
		{Title: "Smart intersections", Description: "Adaptive control for the city center.", Category: "infrastructure", Status: "active"},
		{Title: "Pedestrian safety", Description: "Raised crossings near schools.", Category: "safety", Status: "planned"},
	}

	stats := models.Statistics{
		ViolationsTotal:      7812,
		OrdersTotal:          18,
		FinesAmountTotal:     1500000,
		CollectedAmountTotal: 975000.25,
		EvacuatorsCount:      4,
		TripsCount:           120,
		EvacuationsCount:     35,
		FineLotIncome:        1250.5,
		TrafficLightsActive:  40,
	}

	var lights []TrafficLight
	for i, year := range []int{2018, 2019, 2019, 2021, 2023, 2023, 2023} {
		lightType := "LED"
		if year < 2019 {
			lightType = "incandescent"
		}
		lights = append(lights, TrafficLight{
			Address:     "Intersection " + strconv.Itoa(i+1),
			LightType:   lightType,
			InstallYear: year,
		})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, v := range []any{&team, &news, &services, &projects, &stats, &lights} {
			if err := tx.Create(v).Error; err != nil {
				return fmt.Errorf("failed to seed content: %w", err)
			}
		}
		return nil
	})
}

// trafficSummary aggregates traffic lights by type and by install year
func trafficSummary(db *gorm.DB) (*models.Traffic, error) {
	type bucket struct {
		Label string
		Total int
	}

	var byType []bucket
	if err := db.Model(&TrafficLight{}).
		Select("light_type AS label, COUNT(*) AS total").
		Group("light_type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate light types: %w", err)
	}

	var byYear []bucket
	if err := db.Model(&TrafficLight{}).
		Select("CAST(install_year AS TEXT) AS label, COUNT(*) AS total").
		Group("install_year").
		Scan(&byYear).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate install years: %w", err)
	}

	traffic := &models.Traffic{
		LightTypes:   make(map[string]int, len(byType)),
		InstallYears: make(map[string]int, len(byYear)),
	}
	for _, b := range byType {
		traffic.LightTypes[b.Label] = b.Total
	}
	for _, b := range byYear {
		traffic.InstallYears[b.Label] = b.Total
	}
	return traffic, nil
}
