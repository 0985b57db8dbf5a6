package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockCollectionName = "scheduler_locks"

// SchedulerLockDatabase provides a mongo-backed distributed lock so cron jobs
// run on a single instance at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{db: db}
}

// TryAcquireLock claims the named lock via an upsert that only matches an
// expired (or absent) lock document. A duplicate-key error means another
// instance holds an unexpired lock.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id":       name,
		"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now)},
	}
	update := bson.M{
		"$set": bson.M{
			"owner":     instanceID,
			"expiresAt": primitive.NewDateTimeFromTime(now.Add(ttl)),
		},
	}

	res, err := s.db.Collection(schedulerLockCollectionName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, instanceID string) error {
	_, err := s.db.Collection(schedulerLockCollectionName).DeleteOne(ctx, bson.M{"_id": name, "owner": instanceID})
	return err
}
