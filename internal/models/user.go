package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserDbName  = "quickride"
	UserColName = "users"
)

const (
	UserTypePassenger = "passenger"
	UserTypeDriver    = "driver"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

type EmergencyContact struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
}

// Documents holds URLs of uploaded verification files.
type Documents struct {
	DrivingLicense string `bson:"driving_license,omitempty" json:"driving_license,omitempty"`
	IDFront        string `bson:"id_front,omitempty" json:"id_front,omitempty"`
	IDBack         string `bson:"id_back,omitempty" json:"id_back,omitempty"`
	Insurance      string `bson:"insurance,omitempty" json:"insurance,omitempty"`
	Inspection     string `bson:"inspection,omitempty" json:"inspection,omitempty"`
}

// User covers both passengers and drivers, discriminated by UserType.
// Driver-only fields stay empty on passenger records.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-" validate:"required,min=8"`
	Phone     string             `bson:"phone" json:"phone" validate:"required"`
	UserType  string             `bson:"user_type" json:"user_type" validate:"required,oneof=passenger driver"`

	IDNumber         string           `bson:"id_number,omitempty" json:"id_number,omitempty"`
	Address          string           `bson:"address,omitempty" json:"address,omitempty"`
	City             string           `bson:"city,omitempty" json:"city,omitempty"`
	County           string           `bson:"county,omitempty" json:"county,omitempty"`
	EmergencyContact EmergencyContact `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	ProfilePhoto     string           `bson:"profile_photo,omitempty" json:"profile_photo,omitempty"`

	LicenseNumber string    `bson:"license_number,omitempty" json:"license_number,omitempty"`
	VehicleType   string    `bson:"vehicle_type,omitempty" json:"vehicle_type,omitempty" validate:"omitempty,oneof=saloon hatchback suv mpv premium"`
	VehicleMake   string    `bson:"vehicle_make,omitempty" json:"vehicle_make,omitempty"`
	VehicleModel  string    `bson:"vehicle_model,omitempty" json:"vehicle_model,omitempty"`
	VehicleYear   int       `bson:"vehicle_year,omitempty" json:"vehicle_year,omitempty"`
	VehicleColor  string    `bson:"vehicle_color,omitempty" json:"vehicle_color,omitempty"`
	LicensePlate  string    `bson:"license_plate,omitempty" json:"license_plate,omitempty"`
	Documents     Documents `bson:"documents,omitempty" json:"documents,omitempty"`

	IsVerified         bool      `bson:"is_verified" json:"is_verified"`
	VerificationStatus string    `bson:"verification_status,omitempty" json:"verification_status,omitempty"`
	IsAvailable        bool      `bson:"is_available" json:"is_available"`
	CurrentLocation    *Location `bson:"current_location,omitempty" json:"current_location,omitempty"`
	Rating             float64   `bson:"rating" json:"rating"`
	TotalRides         int       `bson:"total_rides" json:"total_rides"`
	TotalEarnings      float64   `bson:"total_earnings" json:"total_earnings"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	return nil
}

func (u *User) IsDriver() bool {
	return u.UserType == UserTypeDriver
}

// DisplayName prefers the split name fields, falling back to the legacy
// single name used by basic registration.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Name
}

// PassengerView and DriverView are the two fixed response shapes for a user
// record. View picks one by user type instead of conditionally injecting
// fields into a single map.
type PassengerView struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name,omitempty"`
	FirstName string             `json:"first_name,omitempty"`
	LastName  string             `json:"last_name,omitempty"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	UserType  string             `json:"user_type"`
	CreatedAt time.Time          `json:"created_at"`
}

type DriverView struct {
	PassengerView
	IsVerified         bool      `json:"is_verified"`
	VerificationStatus string    `json:"verification_status"`
	IsAvailable        bool      `json:"is_available"`
	Rating             float64   `json:"rating"`
	TotalRides         int       `json:"total_rides"`
	TotalEarnings      float64   `json:"total_earnings"`
	VehicleType        string    `json:"vehicle_type,omitempty"`
	VehicleMake        string    `json:"vehicle_make,omitempty"`
	VehicleModel       string    `json:"vehicle_model,omitempty"`
	VehicleYear        int       `json:"vehicle_year,omitempty"`
	VehicleColor       string    `json:"vehicle_color,omitempty"`
	LicensePlate       string    `json:"license_plate,omitempty"`
	City               string    `json:"city,omitempty"`
	County             string    `json:"county,omitempty"`
	CurrentLocation    *Location `json:"current_location,omitempty"`
}

func (u *User) View() any {
	pv := PassengerView{
		ID:        u.ID,
		Name:      u.Name,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		UserType:  u.UserType,
		CreatedAt: u.CreatedAt,
	}
	if !u.IsDriver() {
		return pv
	}
	return DriverView{
		PassengerView:      pv,
		IsVerified:         u.IsVerified,
		VerificationStatus: u.VerificationStatus,
		IsAvailable:        u.IsAvailable,
		Rating:             u.Rating,
		TotalRides:         u.TotalRides,
		TotalEarnings:      u.TotalEarnings,
		VehicleType:        u.VehicleType,
		VehicleMake:        u.VehicleMake,
		VehicleModel:       u.VehicleModel,
		VehicleYear:        u.VehicleYear,
		VehicleColor:       u.VehicleColor,
		LicensePlate:       u.LicensePlate,
		City:               u.City,
		County:             u.County,
		CurrentLocation:    u.CurrentLocation,
	}
}

// DriverCard is the public profile shape of a verified driver.
type DriverCard struct {
	ID           primitive.ObjectID `json:"id"`
	FirstName    string             `json:"first_name,omitempty"`
	LastName     string             `json:"last_name,omitempty"`
	Name         string             `json:"name,omitempty"`
	Rating       float64            `json:"rating"`
	TotalRides   int                `json:"total_rides"`
	VehicleType  string             `json:"vehicle_type,omitempty"`
	VehicleMake  string             `json:"vehicle_make,omitempty"`
	VehicleModel string             `json:"vehicle_model,omitempty"`
}

func (u *User) Card() DriverCard {
	return DriverCard{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Name:         u.Name,
		Rating:       u.Rating,
		TotalRides:   u.TotalRides,
		VehicleType:  u.VehicleType,
		VehicleMake:  u.VehicleMake,
		VehicleModel: u.VehicleModel,
	}
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// FindConflict returns an existing user sharing the email, phone or id
	// number, or ErrNotFound when all three are free.
	FindConflict(ctx context.Context, email, phone, idNumber string) (*User, error)
	SetDriverAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
	UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*User, error)
	ListAvailableDrivers(ctx context.Context) ([]*User, error)
}
