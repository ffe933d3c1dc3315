package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingDbName  = "quickride"
	BookingColName = "bookings"
)

// Booking statuses. driver_assigned is part of the stored vocabulary for
// historical records but the dispatch flow only ever produces accepted.
const (
	StatusPending        = "pending"
	StatusAccepted       = "accepted"
	StatusDriverAssigned = "driver_assigned"
	StatusPickedUp       = "picked_up"
	StatusInProgress     = "in_progress"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Location is a free-form pickup or dropoff point. Lat/Lng are pointers so
// an absent coordinate stays absent in the document rather than storing 0.
type Location struct {
	Address string   `bson:"address,omitempty" json:"address,omitempty"`
	Lat     *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng     *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

// HasCoordinates reports whether both lat and lng are present.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

type Booking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PassengerID    primitive.ObjectID `bson:"passenger_id" json:"passenger_id" validate:"required"`
	DriverID       primitive.ObjectID `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	Pickup         Location           `bson:"pickup" json:"pickup"`
	Destination    Location           `bson:"destination" json:"destination"`
	DistanceKm     float64            `bson:"distance_km" json:"distance_km" validate:"required"`
	VehicleType    string             `bson:"vehicle_type,omitempty" json:"vehicle_type,omitempty"`
	EstimatedFare  float64            `bson:"estimated_fare" json:"estimated_fare"`
	FinalFare      float64            `bson:"final_fare,omitempty" json:"final_fare,omitempty"`
	Status         string             `bson:"status" json:"status"`
	BookingTime    time.Time          `bson:"booking_time" json:"booking_time"`
	PickupTime     *time.Time         `bson:"pickup_time,omitempty" json:"pickup_time,omitempty"`
	CompletionTime *time.Time         `bson:"completion_time,omitempty" json:"completion_time,omitempty"`
	PaymentStatus  string             `bson:"payment_status" json:"payment_status"`
	PaymentMethod  string             `bson:"payment_method,omitempty" json:"payment_method,omitempty" validate:"omitempty,oneof=cash card mobile_money"`
	Rating         int                `bson:"rating,omitempty" json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Review         string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b *Booking) BeforeCreate() error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	return nil
}

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// IsRequestableStatus reports whether a caller may request this status via
// the status-change endpoint. Accept has its own endpoint, so accepted and
// driver_assigned are not requestable here.
func IsRequestableStatus(status string) bool {
	switch status {
	case StatusPickedUp, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BookingStatusUpdate carries the fields a status change may set. Nil
// pointers are left untouched in the stored document.
type BookingStatusUpdate struct {
	Status         string
	FinalFare      *float64
	CompletionTime *time.Time
}

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	// AcceptPendingBooking assigns the driver and flips the status to
	// accepted in a single conditional update: the write only happens if the
	// booking is still pending, so two racing accepts cannot both win.
	AcceptPendingBooking(ctx context.Context, bookingID, driverID primitive.ObjectID) (*Booking, error)
	UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, update BookingStatusUpdate) (*Booking, error)
	// ListBookingsForUser returns bookings where the user is the passenger
	// or the driver, most recent first.
	ListBookingsForUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error)
	// ListPendingBookings returns pending bookings that have both pickup
	// coordinates, most recent first.
	ListPendingBookings(ctx context.Context) ([]*Booking, error)
}
