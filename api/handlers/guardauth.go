package handlers

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// authenticateGuard verifies in-body guard credentials against the guards
// collection. Guard stations are shared devices, so the mobile number and
// password ride along on each request instead of a session token.
func authenticateGuard(ctx context.Context, db databases.GuardDatabase, mobileNumber, password string) (*models.Guard, error) {
	if mobileNumber == "" || password == "" {
		return nil, fmt.Errorf("guard credentials required")
	}

	guard, err := db.FindOne(ctx, bson.M{"mobileNumber": mobileNumber, "active": true})
	if err != nil {
		return nil, fmt.Errorf("guard not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(guard.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid guard credentials")
	}

	return guard, nil
}
