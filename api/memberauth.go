package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const memberUIDKey contextKey = "memberUid"

// MemberUIDFromContext returns the authenticated member uid, if any
func MemberUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(memberUIDKey).(string)
	return uid, ok
}

// ContextWithMemberUID stashes a member uid the way MemberAuth does, exported
// for handler tests
func ContextWithMemberUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, memberUIDKey, uid)
}

// MemberAuth validates the member JWT issued at login and stashes the member
// uid in the request context
func MemberAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		reqToken := r.Header.Get("Authorization")
		splitToken := strings.Split(reqToken, "Bearer ")
		if len(splitToken) < 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(splitToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			zap.S().Debugw("member token rejected", "url", r.URL, "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		uid, _ := claims["sub"].(string)
		if uid == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), memberUIDKey, uid)))
	})
}
