package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TokenSigner mints a bearer token for the admin dashboard.
type TokenSigner func(ttl time.Duration) (string, error)

// AdminService gates the aggregation views behind a single shared
// passphrase. This is deliberately not an authentication system: one static
// passphrase, no accounts, no lockout.
type AdminService struct {
	passHash  []byte
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AdminLoginResult struct {
	Token     string
	ExpiresIn time.Duration
}

func NewAdminService(passHash []byte, signer TokenSigner, ttl time.Duration) *AdminService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminService{passHash: passHash, signToken: signer, tokenTTL: ttl}
}

// Login compares the supplied passphrase against the configured bcrypt hash
// and returns a dashboard token on success.
func (s *AdminService) Login(passphrase string) (*AdminLoginResult, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, NewInvalidError("passphrase required")
	}
	if len(s.passHash) == 0 {
		return nil, NewInvalidError("admin passphrase not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(passphrase)); err != nil {
		return nil, NewUnauthorizedError("wrong passphrase")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AdminLoginResult{Token: token, ExpiresIn: s.tokenTTL}, nil
}
