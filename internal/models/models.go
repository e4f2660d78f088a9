package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Role determines which admin actions are exposed to a user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleNone   Role = "none"
)

// ParseRole maps a backend role string to a Role; unknown values become RoleNone
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEditor:
		return RoleEditor
	default:
		return RoleNone
	}
}

// UnmarshalJSON accepts any string and normalizes it with ParseRole
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*r = RoleNone
		return nil
	}
	*r = ParseRole(s)
	return nil
}

// CanEdit reports whether the role may change public content
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User is the authenticated principal returned by login and refresh
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TeamMember is a person shown on the team page
type TeamMember struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Experience string    `json:"experience"`
	PhotoURL   *string   `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewsItem is a news article
type NewsItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	Content   string    `json:"content" gorm:"type:text"`
	Tag       string    `json:"tag"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Service is a paid or free service offered to citizens
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	IconURL     *string   `json:"icon_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Project is an infrastructure project
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Statistics holds the yearly indicators shown on the statistics page
type Statistics struct {
	ID                   uint    `json:"-" gorm:"primaryKey"`
	ViolationsTotal      int64   `json:"violations_total"`
	OrdersTotal          int64   `json:"orders_total"`
	FinesAmountTotal     float64 `json:"fines_amount_total"`
	CollectedAmountTotal float64 `json:"collected_amount_total"`
	EvacuatorsCount      int64   `json:"evacuators_count"`
	TripsCount           int64   `json:"trips_count"`
	EvacuationsCount     int64   `json:"evacuations_count"`
	FineLotIncome        float64 `json:"fine_lot_income"`
	TrafficLightsActive  int64   `json:"traffic_lights_active"`
}

// StatisticsFields lists the JSON keys that identify a bare statistics object
var StatisticsFields = []string{
	"violations_total",
	"orders_total",
	"fines_amount_total",
	"collected_amount_total",
	"evacuators_count",
	"trips_count",
	"evacuations_count",
	"fine_lot_income",
	"traffic_lights_active",
}

// Traffic aggregates traffic lights by type and by install year
type Traffic struct {
	LightTypes   map[string]int `json:"light_types"`
	InstallYears map[string]int `json:"install_years"`
}

// TrafficFields lists the JSON keys that identify a bare traffic object
var TrafficFields = []string{"light_types", "install_years"}
