package databases

// go generate: mockery --name BookingDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const bookingCollectionName = "bookings"

// BookingDatabase contains the methods to use with the booking database
type BookingDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Booking, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Booking, error)
	InsertOne(ctx context.Context, booking models.Booking, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type bookingDatabase struct {
	db DatabaseHelper
}

// NewBookingDatabase initializes a new instance of booking database with the provided db connection
func NewBookingDatabase(db DatabaseHelper) BookingDatabase {
	return &bookingDatabase{
		db: db,
	}
}

func (b *bookingDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Booking, error) {
	booking := &models.Booking{}
	err := b.db.Collection(bookingCollectionName).FindOne(ctx, filter, opts...).Decode(&booking)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (b *bookingDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Booking, error) {
	var bookings []models.Booking
	curr, err := b.db.Collection(bookingCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &bookings)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (b *bookingDatabase) InsertOne(ctx context.Context, booking models.Booking, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return b.db.Collection(bookingCollectionName).InsertOne(ctx, booking, opts...)
}

func (b *bookingDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := b.db.Collection(bookingCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (b *bookingDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := b.db.Collection(bookingCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}
