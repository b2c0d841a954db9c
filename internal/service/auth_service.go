package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"closerlab/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles coach and trainee authentication.
type AuthService struct {
	coachUsername string
	coachPassword string
	jwtSecret     []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	username := os.Getenv("COACH_USERNAME")
	if username == "" {
		username = "coach"
	}
	password := os.Getenv("COACH_PASSWORD")
	if password == "" {
		password = "password123"
	}
	return &AuthService{
		coachUsername: username,
		coachPassword: password,
		jwtSecret:     []byte(jwtSecret),
	}
}

// Login validates coach credentials and returns a signed token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.coachUsername || password != s.coachPassword {
		return nil, ErrInvalidCredentials
	}

	coachID := "coach_" + uuid.New().String()[:8]
	claims := &model.CoachClaims{
		CoachID: coachID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: tokenString, CoachID: coachID}, nil
}

// Join registers a trainee and returns a signed token.
func (s *AuthService) Join(name string) (*model.JoinResponse, error) {
	traineeID := "trainee_" + uuid.New().String()[:8]
	if name != "" {
		traineeID = name + "_" + uuid.New().String()[:8]
	}

	claims := &model.TraineeClaims{
		TraineeID: traineeID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &model.JoinResponse{Token: tokenString, TraineeID: traineeID}, nil
}

// ValidateCoachToken validates a coach JWT and returns its claims.
func (s *AuthService) ValidateCoachToken(tokenString string) (*model.CoachClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.CoachClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.CoachClaims)
	if !ok || claims.CoachID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateTraineeToken validates a trainee JWT and returns its claims.
func (s *AuthService) ValidateTraineeToken(tokenString string) (*model.TraineeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.TraineeClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.TraineeClaims)
	if !ok || claims.TraineeID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
