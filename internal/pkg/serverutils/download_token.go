package serverutils

import (
	"errors"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidDownloadToken = errors.New("invalid or expired download token")

type downloadClaims struct {
	Filename string `json:"filename"`
	jwt.RegisteredClaims
}

// DownloadSigner issues short-lived locators that name one file.
type DownloadSigner struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

func NewDownloadSigner(secret string, ttl time.Duration, baseURL string) *DownloadSigner {
	return &DownloadSigner{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: baseURL,
		now:     time.Now,
	}
}

func (s *DownloadSigner) Sign(filename string) (string, error) {
	now := s.now()
	claims := downloadClaims{
		Filename: filename,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *DownloadSigner) Verify(token string) (string, error) {
	claims := &downloadClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.Filename == "" {
		return "", ErrInvalidDownloadToken
	}
	return claims.Filename, nil
}

// Locator returns the download URL for filename, or "" when signing fails.
func (s *DownloadSigner) Locator(filename string) string {
	token, err := s.Sign(filename)
	if err != nil {
		return ""
	}
	return s.baseURL + "/api/files/v1/download?token=" + url.QueryEscape(token)
}
