package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoachLoginRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")

	resp, err := svc.Login("coach", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateCoachToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.CoachID, claims.CoachID)
}

func TestCoachLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("test-secret")

	_, err := svc.Login("coach", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("intruder", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTraineeJoinRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")

	resp, err := svc.Join("sam")
	require.NoError(t, err)
	assert.Contains(t, resp.TraineeID, "sam_")

	claims, err := svc.ValidateTraineeToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.TraineeID, claims.TraineeID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := NewAuthService("test-secret")

	trainee, err := svc.Join("")
	require.NoError(t, err)

	// A trainee token carries no coachId claim.
	_, err = svc.ValidateCoachToken(trainee.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensFromOtherSecretsRejected(t *testing.T) {
	issuer := NewAuthService("secret-a")
	verifier := NewAuthService("secret-b")

	resp, err := issuer.Join("sam")
	require.NoError(t, err)

	_, err = verifier.ValidateTraineeToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
