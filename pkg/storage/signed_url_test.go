package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("job-1", 42, "exam_42.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "job-1", claims.ID)
	require.Equal(t, int64(42), claims.ExamID)
	require.Equal(t, "exam_42.pdf", claims.File)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	base := time.Now()
	signer.now = func() time.Time { return base }
	token, _, err := signer.Generate("job-1", 1, "exam_1.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = signer.Parse(token, false)
	require.Error(t, err)

	claims, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "exam_1.pdf", claims.File)
}

func TestSignedURLSignerRejectsForeignSecret(t *testing.T) {
	token, _, err := NewSignedURLSigner("one", time.Hour).Generate("job-1", 1, "exam_1.pdf")
	require.NoError(t, err)

	_, err = NewSignedURLSigner("two", time.Hour).Parse(token, false)
	require.Error(t, err)
}
