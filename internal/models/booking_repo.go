package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col := mdb.collection(BookingDbName, BookingColName)

	if err := booking.BeforeCreate(); err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col := mdb.collection(BookingDbName, BookingColName)

	var booking Booking
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("error finding booking: %v", err)
	}

	return &booking, nil
}

// AcceptPendingBooking claims a pending booking for a driver. The status
// check is part of the update filter, so when two drivers race for the same
// booking only the first write matches and the second sees no document.
func (mdb *MongodbRepo) AcceptPendingBooking(ctx context.Context, bookingID, driverID primitive.ObjectID) (*Booking, error) {
	col := mdb.collection(BookingDbName, BookingColName)

	filter := bson.M{"_id": bookingID, "status": StatusPending}
	update := bson.M{
		"$set": bson.M{
			"driver_id":  driverID,
			"status":     StatusAccepted,
			"updated_at": time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking Booking
	err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error accepting booking: %v", err)
	}

	// No pending document matched: distinguish a missing booking from one
	// that a concurrent accept already claimed.
	if _, err := mdb.GetBookingByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: booking already accepted", ErrInvalidTransition)
}

func (mdb *MongodbRepo) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, update BookingStatusUpdate) (*Booking, error) {
	col := mdb.collection(BookingDbName, BookingColName)

	set := bson.M{
		"status":     update.Status,
		"updated_at": time.Now(),
	}
	if update.FinalFare != nil {
		set["final_fare"] = *update.FinalFare
	}
	if update.CompletionTime != nil {
		set["completion_time"] = *update.CompletionTime
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking Booking
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("error updating booking status: %v", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) ListBookingsForUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error) {
	col := mdb.collection(BookingDbName, BookingColName)

	filter := bson.M{
		"$or": []bson.M{
			{"passenger_id": userID},
			{"driver_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "booking_time", Value: -1}})

	return mdb.findBookings(ctx, col, filter, opts)
}

func (mdb *MongodbRepo) ListPendingBookings(ctx context.Context) ([]*Booking, error) {
	col := mdb.collection(BookingDbName, BookingColName)

	filter := bson.M{
		"status":     StatusPending,
		"pickup.lat": bson.M{"$exists": true},
		"pickup.lng": bson.M{"$exists": true},
	}
	opts := options.Find().SetSort(bson.D{{Key: "booking_time", Value: -1}})

	return mdb.findBookings(ctx, col, filter, opts)
}

func (mdb *MongodbRepo) findBookings(ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]*Booking, error) {
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var booking Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return bookings, nil
}
