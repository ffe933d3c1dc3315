package container

import (
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/mkamande/quickride/internal/models"
	"github.com/mkamande/quickride/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Cloudinary     *cloudinary.Cloudinary
	MongoDBClient  *mongo.Client
	UserService    *services.UserService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
	tokenTTL time.Duration,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)
	userService := services.NewUserService(repo, cld, tokenTTL)
	bookingService := services.NewBookingService(repo, repo)

	return &Container{
		Logger:         logger,
		Cloudinary:     cld,
		MongoDBClient:  mongoDBClient,
		UserService:    userService,
		BookingService: bookingService,
	}
}
