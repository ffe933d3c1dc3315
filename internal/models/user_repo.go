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

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col := mdb.collection(UserDbName, UserColName)

	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("error inserting user: %v", err)
	}

	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col := mdb.collection(UserDbName, UserColName)

	var user User
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	col := mdb.collection(UserDbName, UserColName)

	var user User
	err := col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: no user with that email", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) FindConflict(ctx context.Context, email, phone, idNumber string) (*User, error) {
	col := mdb.collection(UserDbName, UserColName)

	or := []bson.M{{"email": email}}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if idNumber != "" {
		or = append(or, bson.M{"id_number": idNumber})
	}

	var user User
	err := col.FindOne(ctx, bson.M{"$or": or}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: no conflicting user", ErrNotFound)
		}
		return nil, fmt.Errorf("error checking for existing user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) SetDriverAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	col := mdb.collection(UserDbName, UserColName)

	update := bson.M{
		"$set": bson.M{
			"is_available": available,
			"updated_at":   time.Now(),
		},
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating driver availability: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, id.Hex())
	}

	return nil
}

func (mdb *MongodbRepo) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*User, error) {
	col := mdb.collection(UserDbName, UserColName)

	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("error updating user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) ListAvailableDrivers(ctx context.Context) ([]*User, error) {
	col := mdb.collection(UserDbName, UserColName)

	filter := bson.M{
		"user_type":    UserTypeDriver,
		"is_available": true,
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding drivers: %v", err)
	}
	defer cursor.Close(ctx)

	var drivers []*User
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding driver: %v", err)
		}
		drivers = append(drivers, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return drivers, nil
}
