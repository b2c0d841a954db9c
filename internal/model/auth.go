package model

import "github.com/golang-jwt/jwt/v5"

// CoachClaims are the JWT claims for a coach (admin) token.
type CoachClaims struct {
	CoachID string `json:"coachId"`
	jwt.RegisteredClaims
}

// TraineeClaims are the JWT claims for a trainee token.
type TraineeClaims struct {
	TraineeID string `json:"traineeId"`
	jwt.RegisteredClaims
}

// LoginRequest is the coach login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a signed coach token.
type LoginResponse struct {
	Token   string `json:"token"`
	CoachID string `json:"coachId"`
}

// JoinRequest registers a trainee and issues a token.
type JoinRequest struct {
	Name string `json:"name"`
}

// JoinResponse carries a signed trainee token.
type JoinResponse struct {
	Token     string `json:"token"`
	TraineeID string `json:"traineeId"`
}
