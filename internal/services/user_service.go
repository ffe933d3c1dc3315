package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/mkamande/quickride/internal/helpers"
	"github.com/mkamande/quickride/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	userRepo models.UserRepo
	cld      *cloudinary.Cloudinary
	tokenTTL time.Duration
}

func NewUserService(userRepo models.UserRepo, cld *cloudinary.Cloudinary, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo: userRepo,
		cld:      cld,
		tokenTTL: tokenTTL,
	}
}

type RegisterInput struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	Password      string `validate:"required,min=8"`
	Phone         string `validate:"required"`
	UserType      string `validate:"required,oneof=passenger driver"`
	LicenseNumber string
	VehicleType   string
	LicensePlate  string
}

// Register creates a passenger or a basic driver account and issues a token.
func (us *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if !helpers.IsPasswordStrong(in.Password) {
		return nil, "", fmt.Errorf("%w: password is not strong enough", models.ErrValidation)
	}

	if _, err := us.userRepo.FindConflict(ctx, in.Email, "", ""); err == nil {
		return nil, "", fmt.Errorf("%w: user already exists", models.ErrDuplicate)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		Phone:     in.Phone,
		UserType:  in.UserType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.UserType == models.UserTypeDriver {
		user.LicenseNumber = in.LicenseNumber
		user.VehicleType = in.VehicleType
		user.LicensePlate = in.LicensePlate
		user.VerificationStatus = models.VerificationPending
	}

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := helpers.SignToken(created.ID.Hex(), created.UserType, us.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

type RegisterDriverInput struct {
	FirstName        string `validate:"required"`
	LastName         string `validate:"required"`
	Email            string `validate:"required,email"`
	Password         string `validate:"required,min=8"`
	Phone            string `validate:"required"`
	IDNumber         string `validate:"required"`
	Address          string `validate:"required"`
	City             string `validate:"required"`
	County           string `validate:"required"`
	EmergencyContact models.EmergencyContact
	VehicleType      string `validate:"omitempty,oneof=saloon hatchback suv mpv premium"`
	VehicleMake      string
	VehicleModel     string
	VehicleYear      int
	VehicleColor     string
	LicensePlate     string
	LicenseNumber    string
}

// RegisterDriver handles the full driver onboarding form. The account starts
// unverified and unavailable; a driver cannot log in until approved.
func (us *UserService) RegisterDriver(ctx context.Context, in RegisterDriverInput) (*models.User, string, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if !helpers.IsPasswordStrong(in.Password) {
		return nil, "", fmt.Errorf("%w: password is not strong enough", models.ErrValidation)
	}

	existing, err := us.userRepo.FindConflict(ctx, in.Email, in.Phone, in.IDNumber)
	if err == nil {
		conflictField := "ID number"
		switch {
		case existing.Email == in.Email:
			conflictField = "email"
		case existing.Phone == in.Phone:
			conflictField = "phone"
		}
		return nil, "", fmt.Errorf("%w: user with this %s already exists", models.ErrDuplicate, conflictField)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &models.User{
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Email:              in.Email,
		Password:           hash,
		Phone:              in.Phone,
		UserType:           models.UserTypeDriver,
		IDNumber:           in.IDNumber,
		Address:            in.Address,
		City:               in.City,
		County:             in.County,
		EmergencyContact:   in.EmergencyContact,
		VehicleType:        in.VehicleType,
		VehicleMake:        in.VehicleMake,
		VehicleModel:       in.VehicleModel,
		VehicleYear:        in.VehicleYear,
		VehicleColor:       in.VehicleColor,
		LicensePlate:       in.LicensePlate,
		LicenseNumber:      in.LicenseNumber,
		IsVerified:         false,
		VerificationStatus: models.VerificationPending,
		IsAvailable:        false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := helpers.SignToken(created.ID.Hex(), created.UserType, us.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// Login checks credentials and issues a token. Unverified drivers are locked
// out until approval; bad email and bad password fail identically.
func (us *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}
	if err := models.Validate.Var(password, "required"); err != nil {
		return nil, "", fmt.Errorf("%w: password is required", models.ErrValidation)
	}

	user, err := us.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", models.ErrValidation)
		}
		return nil, "", err
	}

	if !helpers.CheckPassword(user.Password, password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", models.ErrValidation)
	}

	if user.IsDriver() && !user.IsVerified {
		return nil, "", fmt.Errorf("%w: your driver account is pending verification", models.ErrForbidden)
	}

	token, err := helpers.SignToken(user.ID.Hex(), user.UserType, us.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}

// UpdateAvailability lets a verified driver toggle the availability flag
// and/or report a new location.
func (us *UserService) UpdateAvailability(ctx context.Context, driverID primitive.ObjectID, isAvailable *bool, location *models.Location) (*models.User, error) {
	user, err := us.userRepo.GetUserByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() {
		return nil, fmt.Errorf("%w: only drivers can update availability", models.ErrForbidden)
	}
	if !user.IsVerified {
		return nil, fmt.Errorf("%w: please verify your account first", models.ErrForbidden)
	}

	fields := map[string]interface{}{}
	if isAvailable != nil {
		fields["is_available"] = *isAvailable
	}
	if location != nil {
		fields["current_location"] = location
	}
	if len(fields) == 0 {
		return user, nil
	}

	return us.userRepo.UpdateUserFields(ctx, driverID, fields)
}

// GetDriverProfile returns the public card of a verified driver.
func (us *UserService) GetDriverProfile(ctx context.Context, id primitive.ObjectID) (*models.DriverCard, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() || !user.IsVerified {
		return nil, fmt.Errorf("%w: driver not found", models.ErrNotFound)
	}

	card := user.Card()
	return &card, nil
}

func (us *UserService) ListAvailableDrivers(ctx context.Context) ([]*models.User, error) {
	return us.userRepo.ListAvailableDrivers(ctx)
}

// Document slots a driver may upload to.
var documentFields = map[string]string{
	"driving_license": "documents.driving_license",
	"id_front":        "documents.id_front",
	"id_back":         "documents.id_back",
	"insurance":       "documents.insurance",
	"inspection":      "documents.inspection",
	"profile_photo":   "profile_photo",
}

// UploadDocuments pushes the given images to Cloudinary and records their
// URLs on the driver record. Keys outside the known slots are rejected.
func (us *UserService) UploadDocuments(ctx context.Context, driverID primitive.ObjectID, images map[string]string) (*models.User, error) {
	user, err := us.userRepo.GetUserByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() {
		return nil, fmt.Errorf("%w: only drivers can upload documents", models.ErrForbidden)
	}

	fields := map[string]interface{}{}
	for slot, image := range images {
		target, ok := documentFields[slot]
		if !ok {
			return nil, fmt.Errorf("%w: unknown document slot %q", models.ErrValidation, slot)
		}
		if image == "" {
			continue
		}
		urls, err := helpers.UploadImages(ctx, us.cld, []string{image}, helpers.DocumentsFolder)
		if err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			fields[target] = urls[0]
		}
	}
	if len(fields) == 0 {
		return user, nil
	}

	return us.userRepo.UpdateUserFields(ctx, driverID, fields)
}
