package middleware

import (
	"context"
	"net/http"
	"strings"

	"closerlab/internal/service"
)

type contextKey string

const (
	coachIDKey   contextKey = "coachID"
	traineeIDKey contextKey = "traineeID"
)

// RequireCoach validates the coach JWT from the Authorization header.
func RequireCoach(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, `{"error":"missing authorization token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := authSvc.ValidateCoachToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), coachIDKey, claims.CoachID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTrainee validates the trainee JWT from the Authorization header.
func RequireTrainee(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, `{"error":"missing authorization token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := authSvc.ValidateTraineeToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), traineeIDKey, claims.TraineeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// GetCoachID returns the coach ID stored by RequireCoach.
func GetCoachID(ctx context.Context) string {
	id, _ := ctx.Value(coachIDKey).(string)
	return id
}

// GetTraineeID returns the trainee ID stored by RequireTrainee.
func GetTraineeID(ctx context.Context) string {
	id, _ := ctx.Value(traineeIDKey).(string)
	return id
}
