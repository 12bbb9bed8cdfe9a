package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DownloadClaims identifies a stored artefact behind a signed download token.
type DownloadClaims struct {
	File   string `json:"file"`
	ExamID int64  `json:"exam_id"`
	jwt.RegisteredClaims
}

// SignedURLSigner issues and verifies HMAC-signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner builds a signer. A non-positive ttl defaults to 24h.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate signs a token for file belonging to examID.
func (s *SignedURLSigner) Generate(jobID string, examID int64, file string) (string, time.Time, error) {
	if jobID == "" || file == "" {
		return "", time.Time{}, errors.New("job id and file required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret missing")
	}

	issued := s.now()
	expiresAt := issued.Add(s.ttl)
	claims := DownloadClaims{
		File:   file,
		ExamID: examID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jobID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign download token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies token and returns its claims. allowExpired skips the expiry check.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (*DownloadClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &DownloadClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid download token: %w", err)
	}
	if !parsed.Valid || claims.File == "" {
		return nil, errors.New("invalid download token")
	}
	return claims, nil
}
