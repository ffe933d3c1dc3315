package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkamande/quickride/internal/fare"
	"github.com/mkamande/quickride/internal/models"
	"github.com/mkamande/quickride/internal/observability"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService owns the booking state machine: it is the only code that
// mutates a booking, and it keeps the driver availability flag in step with
// booking assignment.
type BookingService struct {
	bookingRepo models.BookingRepo
	userRepo    models.UserRepo
}

func NewBookingService(bookingRepo models.BookingRepo, userRepo models.UserRepo) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

type CreateBookingInput struct {
	Pickup      models.Location
	Destination models.Location
	DistanceKm  float64
	VehicleType string
}

// CreateBooking opens a new pending booking for a passenger. Any
// authenticated user may create one; the fare estimate is fixed here and
// never recomputed.
func (bs *BookingService) CreateBooking(ctx context.Context, passengerID primitive.ObjectID, in CreateBookingInput) (*models.Booking, error) {
	if passengerID.IsZero() {
		return nil, fmt.Errorf("%w: passenger id is required", models.ErrValidation)
	}

	now := time.Now()
	booking := &models.Booking{
		PassengerID:   passengerID,
		Pickup:        in.Pickup,
		Destination:   in.Destination,
		DistanceKm:    in.DistanceKm,
		VehicleType:   in.VehicleType,
		EstimatedFare: fare.Estimate(in.DistanceKm, in.VehicleType),
		Status:        models.StatusPending,
		BookingTime:   now,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := bs.bookingRepo.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	observability.BookingsCreated.Inc()
	return created, nil
}

// AcceptBooking claims a pending booking for a driver. The claim itself is a
// single conditional update at the storage layer, so concurrent accepts on
// the same booking resolve to exactly one winner; the loser surfaces
// ErrInvalidTransition. The availability flip is a coupled follow-up write.
func (bs *BookingService) AcceptBooking(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	booking, err := bs.bookingRepo.AcceptPendingBooking(ctx, bookingID, driverID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			observability.AcceptConflicts.Inc()
		}
		return nil, err
	}

	if err := bs.userRepo.SetDriverAvailability(ctx, driverID, false); err != nil {
		return nil, fmt.Errorf("booking accepted but failed to mark driver unavailable: %v", err)
	}

	observability.BookingsAccepted.Inc()
	return booking, nil
}

// ChangeStatus moves a booking to one of the caller-requestable states. Only
// the booking's passenger or its assigned driver may call it. There is no
// ordering constraint between the requestable states; completion stamps the
// time, copies the estimate into the final fare and releases the driver.
// Cancellation does not release an assigned driver.
func (bs *BookingService) ChangeStatus(ctx context.Context, bookingID, callerID primitive.ObjectID, newStatus string) (*models.Booking, error) {
	if !models.IsRequestableStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, newStatus)
	}

	booking, err := bs.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PassengerID != callerID && booking.DriverID != callerID {
		return nil, fmt.Errorf("%w: not a party to this booking", models.ErrForbidden)
	}

	update := models.BookingStatusUpdate{Status: newStatus}
	if newStatus == models.StatusCompleted {
		now := time.Now()
		finalFare := booking.EstimatedFare
		update.CompletionTime = &now
		update.FinalFare = &finalFare
	}

	updated, err := bs.bookingRepo.UpdateBookingStatus(ctx, bookingID, update)
	if err != nil {
		return nil, err
	}

	if newStatus == models.StatusCompleted {
		if !booking.DriverID.IsZero() {
			if err := bs.userRepo.SetDriverAvailability(ctx, booking.DriverID, true); err != nil {
				return nil, fmt.Errorf("booking completed but failed to release driver: %v", err)
			}
		}
		observability.BookingsCompleted.Inc()
	}

	return updated, nil
}

// ListForUser returns every booking the user is party to, newest first.
func (bs *BookingService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: user id is required", models.ErrValidation)
	}
	return bs.bookingRepo.ListBookingsForUser(ctx, userID)
}

// ListAvailable returns the dispatchable bookings a driver may accept:
// pending, with both pickup coordinates present. Only drivers may ask.
func (bs *BookingService) ListAvailable(ctx context.Context, callerID primitive.ObjectID) ([]*models.Booking, error) {
	caller, err := bs.userRepo.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsDriver() {
		return nil, fmt.Errorf("%w: only drivers can view available bookings", models.ErrForbidden)
	}

	return bs.bookingRepo.ListPendingBookings(ctx)
}
