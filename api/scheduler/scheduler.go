package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// Retention windows for settled visitor requests
const (
	approvedRetention = 24 * time.Hour
	expiredRetention  = time.Hour
)

// Scheduler runs the periodic visitor expiry and retention sweep
type Scheduler struct {
	cron       *cron.Cron
	VDB        databases.VisitorDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(vDB databases.VisitorDatabase, lockDB databases.SchedulerLockDatabase) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		VDB:        vDB,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep expired pre-approvals and prune settled ones every 10 minutes
	_, err := s.cron.AddFunc("*/10 * * * *", s.runSweepJob)
	if err != nil {
		zap.S().Errorw("failed to register visitor sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Visitor sweep scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Visitor sweep scheduler stopped")
}

// runSweepJob wraps the sweep in a timeout and the distributed lock so only
// one instance sweeps per tick
func (s *Scheduler) runSweepJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "visitor_sweep_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for visitor sweep", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Visitor sweep already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "visitor_sweep_job", s.instanceID)

	if err := s.RunRetentionSweep(ctx); err != nil {
		zap.S().Errorw("visitor sweep failed", "error", err)
	}
}

// RunRetentionSweep applies the three lifecycle mutations: pending requests
// past expiry flip to expired, approved requests older than a day are
// deleted, and expired requests linger an hour before deletion. Each pass is
// idempotent; a rerun with no new work mutates nothing.
func (s *Scheduler) RunRetentionSweep(ctx context.Context) error {
	now := time.Now()
	zap.S().Infow("Running visitor retention sweep", "instance", s.instanceID)

	expired, err := s.VDB.UpdateMany(ctx,
		bson.M{
			"status": models.VisitorStatusPending,
			"expiry": bson.M{"$lt": primitive.NewDateTimeFromTime(now)},
		},
		bson.M{"$set": bson.M{
			"status":    models.VisitorStatusExpired,
			"updatedAt": primitive.NewDateTimeFromTime(now),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to expire stale pre-approvals: %w", err)
	}

	approvedPruned, err := s.VDB.DeleteMany(ctx, bson.M{
		"status":    models.VisitorStatusApproved,
		"createdAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now.Add(-approvedRetention))},
	})
	if err != nil {
		return fmt.Errorf("failed to prune approved pre-approvals: %w", err)
	}

	expiredPruned, err := s.VDB.DeleteMany(ctx, bson.M{
		"status":    models.VisitorStatusExpired,
		"updatedAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now.Add(-expiredRetention))},
	})
	if err != nil {
		return fmt.Errorf("failed to prune expired pre-approvals: %w", err)
	}

	zap.S().Infow("Visitor retention sweep complete",
		"expired", expired,
		"approvedPruned", approvedPruned,
		"expiredPruned", expiredPruned,
	)
	return nil
}
