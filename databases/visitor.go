package databases

// go generate: mockery --name VisitorDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const visitorCollectionName = "visitors"

// VisitorDatabase contains the methods to use with the visitor database
type VisitorDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.VisitorRequest, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.VisitorRequest, error)
	InsertOne(ctx context.Context, visitor models.VisitorRequest, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	ApproveOne(ctx context.Context, id primitive.ObjectID, otpCode string, now time.Time) (*models.VisitorRequest, error)
	ForceApprove(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.VisitorRequest, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type visitorDatabase struct {
	db DatabaseHelper
}

// NewVisitorDatabase initializes a new instance of visitor database with the provided db connection
func NewVisitorDatabase(db DatabaseHelper) VisitorDatabase {
	return &visitorDatabase{
		db: db,
	}
}

func (v *visitorDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.VisitorRequest, error) {
	visitor := &models.VisitorRequest{}
	err := v.db.Collection(visitorCollectionName).FindOne(ctx, filter, opts...).Decode(&visitor)
	if err != nil {
		return nil, err
	}
	return visitor, nil
}

func (v *visitorDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.VisitorRequest, error) {
	var visitors []models.VisitorRequest
	curr, err := v.db.Collection(visitorCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &visitors)
	if err != nil {
		return nil, err
	}
	return visitors, nil
}

func (v *visitorDatabase) InsertOne(ctx context.Context, visitor models.VisitorRequest, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return v.db.Collection(visitorCollectionName).InsertOne(ctx, visitor, opts...)
}

// ApproveOne performs the OTP-gated approval as one atomic conditional update.
// The aggregation-pipeline update increments approvedCount and flips status to
// approved in the same document write once the new count reaches totalCount,
// so concurrent approvals can never both read the same pre-increment count.
func (v *visitorDatabase) ApproveOne(ctx context.Context, id primitive.ObjectID, otpCode string, now time.Time) (*models.VisitorRequest, error) {
	filter := bson.M{
		"_id":     id,
		"otpCode": otpCode,
		"status":  models.VisitorStatusPending,
		"expiry":  bson.M{"$gt": primitive.NewDateTimeFromTime(now)},
	}
	update := bson.A{
		bson.M{"$set": bson.M{
			"approvedCount": bson.M{"$add": bson.A{"$approvedCount", 1}},
			"updatedAt":     primitive.NewDateTimeFromTime(now),
		}},
		bson.M{"$set": bson.M{
			"status": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$approvedCount", "$totalCount"}},
				models.VisitorStatusApproved,
				"$status",
			}},
		}},
	}

	visitor := &models.VisitorRequest{}
	err := v.db.Collection(visitorCollectionName).
		FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&visitor)
	if err != nil {
		return nil, err
	}
	return visitor, nil
}

// ForceApprove is the admin override: a pending request jumps straight to
// approved and approvedCount is reconciled to totalCount in the same write.
func (v *visitorDatabase) ForceApprove(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.VisitorRequest, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.VisitorStatusPending,
	}
	update := bson.A{
		bson.M{"$set": bson.M{
			"status":        models.VisitorStatusApproved,
			"approvedCount": "$totalCount",
			"updatedAt":     primitive.NewDateTimeFromTime(now),
		}},
	}

	visitor := &models.VisitorRequest{}
	err := v.db.Collection(visitorCollectionName).
		FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&visitor)
	if err != nil {
		return nil, err
	}
	return visitor, nil
}

func (v *visitorDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	res, err := v.db.Collection(visitorCollectionName).UpdateMany(ctx, filter, update, opts...)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (v *visitorDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := v.db.Collection(visitorCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}

func (v *visitorDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	res, err := v.db.Collection(visitorCollectionName).DeleteMany(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (v *visitorDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return v.db.Collection(visitorCollectionName).CountDocuments(ctx, filter, opts...)
}
