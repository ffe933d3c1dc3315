package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkamande/quickride/internal/helpers"
	"github.com/mkamande/quickride/internal/middleware"
	"github.com/mkamande/quickride/internal/models"
	"github.com/mkamande/quickride/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubRepo is a minimal in-memory implementation of both repo interfaces,
// just enough to drive the handlers through real services.
type stubRepo struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]models.User
	bookings map[primitive.ObjectID]models.Booking
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:    make(map[primitive.ObjectID]models.User),
		bookings: make(map[primitive.ObjectID]models.Booking),
	}
}

func (s *stubRepo) addUser(user models.User) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return user.ID
}

func (s *stubRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.addUser(*user)
	return user, nil
}

func (s *stubRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	return &u, nil
}

func (s *stubRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return nil, fmt.Errorf("%w: no user with that email", models.ErrNotFound)
}

func (s *stubRepo) FindConflict(_ context.Context, email, phone, idNumber string) (*models.User, error) {
	return nil, fmt.Errorf("%w: no conflicting user", models.ErrNotFound)
}

func (s *stubRepo) SetDriverAvailability(_ context.Context, id primitive.ObjectID, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%w: user", models.ErrNotFound)
	}
	u.IsAvailable = available
	s.users[id] = u
	return nil
}

func (s *stubRepo) UpdateUserFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	return s.GetUserByID(context.Background(), id)
}

func (s *stubRepo) ListAvailableDrivers(_ context.Context) ([]*models.User, error) {
	return nil, nil
}

func (s *stubRepo) CreateBooking(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := booking.BeforeCreate(); err != nil {
		return nil, err
	}
	s.bookings[booking.ID] = *booking
	return booking, nil
}

func (s *stubRepo) GetBookingByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking", models.ErrNotFound)
	}
	return &b, nil
}

func (s *stubRepo) AcceptPendingBooking(_ context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: booking", models.ErrNotFound)
	}
	if b.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: booking already accepted", models.ErrInvalidTransition)
	}
	b.DriverID = driverID
	b.Status = models.StatusAccepted
	s.bookings[bookingID] = b
	return &b, nil
}

func (s *stubRepo) UpdateBookingStatus(_ context.Context, id primitive.ObjectID, update models.BookingStatusUpdate) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking", models.ErrNotFound)
	}
	b.Status = update.Status
	if update.FinalFare != nil {
		b.FinalFare = *update.FinalFare
	}
	if update.CompletionTime != nil {
		t := *update.CompletionTime
		b.CompletionTime = &t
	}
	s.bookings[id] = b
	return &b, nil
}

func (s *stubRepo) ListBookingsForUser(_ context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.PassengerID == userID || b.DriverID == userID {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func (s *stubRepo) ListPendingBookings(_ context.Context) ([]*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.Status == models.StatusPending && b.Pickup.HasCoordinates() {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *stubRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	repo := newStubRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	userService := services.NewUserService(repo, nil, time.Hour)
	bookingService := services.NewBookingService(repo, repo)

	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(userService, logger))
	protected.POST("/bookings", CreateBooking(bookingService))
	protected.GET("/bookings/mine", MyBookings(bookingService))
	protected.GET("/bookings/available", AvailableBookings(bookingService))
	protected.PATCH("/bookings/:id/accept", AcceptBooking(bookingService))
	protected.PATCH("/bookings/:id/status", UpdateBookingStatus(bookingService))

	return r, repo
}

func bearerFor(t *testing.T, userID primitive.ObjectID, userType string) string {
	t.Helper()
	token, err := helpers.SignToken(userID.Hex(), userType, time.Hour)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	return "Bearer " + token
}

func doJSON(r *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	r, repo := setupTestRouter(t)
	passengerID := repo.addUser(models.User{UserType: models.UserTypePassenger, Email: "p@example.com"})

	body := gin.H{
		"pickup":       gin.H{"address": "Westlands", "lat": -1.2635, "lng": 36.8047},
		"destination":  gin.H{"address": "CBD", "lat": -1.2864, "lng": 36.8172},
		"distance_km":  10,
		"vehicle_type": "premium",
	}

	w := doJSON(r, http.MethodPost, "/api/v1/bookings", bearerFor(t, passengerID, "passenger"), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.Booking.EstimatedFare != 300 {
		t.Errorf("estimated fare = %f, want 300", resp.Booking.EstimatedFare)
	}
	if resp.Booking.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", resp.Booking.Status)
	}
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/bookings", "", gin.H{"distance_km": 5})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAvailableBookingsForbiddenForPassengers(t *testing.T) {
	r, repo := setupTestRouter(t)
	passengerID := repo.addUser(models.User{UserType: models.UserTypePassenger, Email: "p@example.com"})

	w := doJSON(r, http.MethodGet, "/api/v1/bookings/available", bearerFor(t, passengerID, "passenger"), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
	}
}

func TestAcceptBookingNotFound(t *testing.T) {
	r, repo := setupTestRouter(t)
	driverID := repo.addUser(models.User{UserType: models.UserTypeDriver, Email: "d@example.com", IsVerified: true})

	auth := bearerFor(t, driverID, "driver")

	// Garbage id and well-formed-but-unknown id both read as 404.
	w := doJSON(r, http.MethodPatch, "/api/v1/bookings/not-an-id/accept", auth, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("garbage id: status = %d, want 404", w.Code)
	}
	w = doJSON(r, http.MethodPatch, "/api/v1/bookings/"+primitive.NewObjectID().Hex()+"/accept", auth, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestAcceptBookingConflictIs400(t *testing.T) {
	r, repo := setupTestRouter(t)
	lat, lng := -1.2635, 36.8047
	passengerID := repo.addUser(models.User{UserType: models.UserTypePassenger, Email: "p@example.com"})
	d1 := repo.addUser(models.User{UserType: models.UserTypeDriver, Email: "d1@example.com", IsVerified: true})
	d2 := repo.addUser(models.User{UserType: models.UserTypeDriver, Email: "d2@example.com", IsVerified: true})

	booking := models.Booking{
		PassengerID: passengerID,
		Status:      models.StatusPending,
		Pickup:      models.Location{Lat: &lat, Lng: &lng},
		BookingTime: time.Now(),
	}
	repo.CreateBooking(context.Background(), &booking)

	if w := doJSON(r, http.MethodPatch, "/api/v1/bookings/"+booking.ID.Hex()+"/accept", bearerFor(t, d1, "driver"), nil); w.Code != http.StatusOK {
		t.Fatalf("first accept: status = %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodPatch, "/api/v1/bookings/"+booking.ID.Hex()+"/accept", bearerFor(t, d2, "driver"), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("second accept: status = %d, want 400", w.Code)
	}
}

func TestUpdateBookingStatusContract(t *testing.T) {
	r, repo := setupTestRouter(t)
	passengerID := repo.addUser(models.User{UserType: models.UserTypePassenger, Email: "p@example.com"})
	strangerID := repo.addUser(models.User{UserType: models.UserTypePassenger, Email: "s@example.com"})

	booking := models.Booking{
		PassengerID: passengerID,
		Status:      models.StatusPending,
		BookingTime: time.Now(),
	}
	repo.CreateBooking(context.Background(), &booking)
	path := "/api/v1/bookings/" + booking.ID.Hex() + "/status"

	if w := doJSON(r, http.MethodPatch, path, bearerFor(t, passengerID, "passenger"), gin.H{"status": "levitating"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid status: %d, want 400", w.Code)
	}
	if w := doJSON(r, http.MethodPatch, path, bearerFor(t, strangerID, "passenger"), gin.H{"status": "cancelled"}); w.Code != http.StatusForbidden {
		t.Errorf("stranger: %d, want 403", w.Code)
	}
	if w := doJSON(r, http.MethodPatch, path, bearerFor(t, passengerID, "passenger"), gin.H{"status": "cancelled"}); w.Code != http.StatusOK {
		t.Errorf("owner cancel: %d, want 200", w.Code)
	}
}
