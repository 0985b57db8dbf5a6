package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/societyhq/society-api/databases"
	mocksdb "github.com/societyhq/society-api/databases/mocks"
)

func TestSchedulerLock_TryAcquireLockAcquired(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}

	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)
	db.On("Collection", "scheduler_locks").Return(conn)

	lockDB := databases.NewSchedulerLockDatabase(db)

	acquired, err := lockDB.TryAcquireLock(context.Background(), "visitor_sweep_job", "instance-1", 10*time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)
}

func TestSchedulerLock_TryAcquireLockHeldElsewhere(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}

	// an unexpired lock owned by another instance surfaces as a duplicate key
	// on the upsert
	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, dupErr)
	db.On("Collection", "scheduler_locks").Return(conn)

	lockDB := databases.NewSchedulerLockDatabase(db)

	acquired, err := lockDB.TryAcquireLock(context.Background(), "visitor_sweep_job", "instance-2", 10*time.Minute)
	assert.NoError(t, err)
	assert.False(t, acquired)
}

func TestSchedulerLock_TryAcquireLockError(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}

	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("mocked-error"))
	db.On("Collection", "scheduler_locks").Return(conn)

	lockDB := databases.NewSchedulerLockDatabase(db)

	acquired, err := lockDB.TryAcquireLock(context.Background(), "visitor_sweep_job", "instance-1", 10*time.Minute)
	assert.EqualError(t, err, "mocked-error")
	assert.False(t, acquired)
}

func TestSchedulerLock_ReleaseLock(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}

	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(&mongo.DeleteResult{DeletedCount: 1}, nil)
	db.On("Collection", "scheduler_locks").Return(conn)

	lockDB := databases.NewSchedulerLockDatabase(db)

	assert.NoError(t, lockDB.ReleaseLock(context.Background(), "visitor_sweep_job", "instance-1"))
	conn.AssertNumberOfCalls(t, "DeleteOne", 1)
}
