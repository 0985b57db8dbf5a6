package handlers

import (
	"context"
	"fmt"
	"math/rand"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/societyhq/society-api/databases"
)

// maxOTPAttempts bounds the uniqueness retry loop so a saturated code space
// fails loudly instead of spinning forever
const maxOTPAttempts = 25

// allocateOTP picks a 4-digit code that no stored request uses, retained
// approved/expired ones included. Guards key approvals on the code alone, so
// a code stays reserved until the sweep hard-deletes its request.
func allocateOTP(ctx context.Context, db databases.VisitorDatabase) (string, error) {
	for attempt := 0; attempt < maxOTPAttempts; attempt++ {
		code := fmt.Sprintf("%04d", rand.Intn(10000))

		count, err := db.CountDocuments(ctx, bson.M{"otpCode": code})
		if err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate OTP after %d attempts", maxOTPAttempts)
}
