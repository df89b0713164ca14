// Package admingrant provides local tooling for admin grant keys: it
// generates an ed25519 keypair and mints a signed grant to paste into
// Authorization headers during development.
package admingrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/classfund/classfund/internal/server/adminauth"
)

// Options configures key generation and grant minting.
type Options struct {
	Issuer   string
	Audience string
	Subject  string
	TTL      time.Duration
	Now      func() time.Time
}

// Run generates an admin grant key pair, writes env exports, and mints
// one signed grant.
func Run(out io.Writer, reader io.Reader, opts Options) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	if opts.Issuer == "" {
		opts.Issuer = "classfund-local"
	}
	if opts.Audience == "" {
		opts.Audience = "classfund-admin"
	}
	if opts.Subject == "" {
		opts.Subject = "admin@localhost"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate admin grant key: %w", err)
	}

	jwtID, err := grantID(reader)
	if err != nil {
		return fmt.Errorf("generate grant id: %w", err)
	}
	grant, err := adminauth.SignGrant(privateKey, opts.Issuer, opts.Audience, opts.Subject, jwtID, opts.TTL, opts.Now)
	if err != nil {
		return fmt.Errorf("mint admin grant: %w", err)
	}

	if _, err := fmt.Fprintf(out, "export CLASSFUND_ADMIN_GRANT_ISSUER=%s\n", opts.Issuer); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export CLASSFUND_ADMIN_GRANT_AUDIENCE=%s\n", opts.Audience); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export CLASSFUND_ADMIN_GRANT_PUBLIC_KEY=%s\n", base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export CLASSFUND_ADMIN_GRANT=%s\n", grant); err != nil {
		return err
	}
	return nil
}

func grantID(reader io.Reader) (string, error) {
	raw := make([]byte, 16)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
