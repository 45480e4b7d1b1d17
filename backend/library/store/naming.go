package store

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pngdrop/backend/common"
)

const (
	nameExtension     = ".png"
	randomSuffixLen   = 12
	timestampLayout   = "20060102150405"
	alphanumeric      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	unbiasedByteLimit = 256 - (256 % len(alphanumeric))
)

// Namer produces a fresh file name for an upload
type Namer func() (string, error)

// NamerFor returns the Namer for a configured naming scheme
func NamerFor(scheme string) (Namer, error) {
	switch scheme {
	case "", common.NamingTimestamp:
		return func() (string, error) { return TimestampName(time.Now()) }, nil
	case common.NamingUUID:
		return UUIDName, nil
	default:
		return nil, fmt.Errorf("unknown naming scheme %q", scheme)
	}
}

// TimestampName returns "<YYYYMMDDHHMMSS>-<12 random alphanumerics>.png"
func TimestampName(now time.Time) (string, error) {
	suffix, err := randomAlphanumeric(randomSuffixLen)
	if err != nil {
		return "", err
	}
	return now.Format(timestampLayout) + "-" + suffix + nameExtension, nil
}

// UUIDName returns a random (version 4) UUID with the .png extension
func UUIDName() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String() + nameExtension, nil
}

// randomAlphanumeric draws n characters uniformly from [A-Za-z0-9] using
// crypto/rand, rejecting bytes that would bias the modulo.
func randomAlphanumeric(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= unbiasedByteLimit {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
