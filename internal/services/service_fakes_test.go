package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mkamande/quickride/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repo fakes. acceptPending holds the repo lock for the whole
// check-and-write, mirroring the conditional update the Mongo repo issues.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]models.Booking)}
}

func (f *fakeBookingRepo) CreateBooking(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := booking.BeforeCreate(); err != nil {
		return nil, err
	}
	f.bookings[booking.ID] = *booking
	b := *booking
	return &b, nil
}

func (f *fakeBookingRepo) GetBookingByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id.Hex())
	}
	return &b, nil
}

func (f *fakeBookingRepo) AcceptPendingBooking(_ context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, bookingID.Hex())
	}
	if b.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: booking already accepted", models.ErrInvalidTransition)
	}
	b.DriverID = driverID
	b.Status = models.StatusAccepted
	f.bookings[bookingID] = b
	return &b, nil
}

func (f *fakeBookingRepo) UpdateBookingStatus(_ context.Context, id primitive.ObjectID, update models.BookingStatusUpdate) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id.Hex())
	}
	b.Status = update.Status
	if update.FinalFare != nil {
		b.FinalFare = *update.FinalFare
	}
	if update.CompletionTime != nil {
		t := *update.CompletionTime
		b.CompletionTime = &t
	}
	f.bookings[id] = b
	return &b, nil
}

func (f *fakeBookingRepo) ListBookingsForUser(_ context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.PassengerID == userID || b.DriverID == userID {
			b := b
			out = append(out, &b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeBookingRepo) ListPendingBookings(_ context.Context) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.Status == models.StatusPending && b.Pickup.HasCoordinates() {
			b := b
			out = append(out, &b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(bookings []*models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].BookingTime.After(bookings[j].BookingTime)
	})
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserRepo) put(user models.User) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user.ID
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	f.users[user.ID] = *user
	u := *user
	return &u, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	return &u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: no user with that email", models.ErrNotFound)
}

func (f *fakeUserRepo) FindConflict(_ context.Context, email, phone, idNumber string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email || (phone != "" && u.Phone == phone) || (idNumber != "" && u.IDNumber == idNumber) {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: no conflicting user", models.ErrNotFound)
}

func (f *fakeUserRepo) SetDriverAvailability(_ context.Context, id primitive.ObjectID, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	u.IsAvailable = available
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateUserFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	for k, v := range fields {
		switch k {
		case "is_available":
			u.IsAvailable = v.(bool)
		case "current_location":
			u.CurrentLocation = v.(*models.Location)
		case "profile_photo":
			u.ProfilePhoto = v.(string)
		case "documents.driving_license":
			u.Documents.DrivingLicense = v.(string)
		case "documents.id_front":
			u.Documents.IDFront = v.(string)
		case "documents.id_back":
			u.Documents.IDBack = v.(string)
		case "documents.insurance":
			u.Documents.Insurance = v.(string)
		case "documents.inspection":
			u.Documents.Inspection = v.(string)
		}
	}
	f.users[id] = u
	return &u, nil
}

func (f *fakeUserRepo) ListAvailableDrivers(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		if u.UserType == models.UserTypeDriver && u.IsAvailable {
			u := u
			out = append(out, &u)
		}
	}
	return out, nil
}
