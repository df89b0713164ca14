// Package slug generates unique, URL-safe public identifiers for
// campaigns. A slug is derived from the campaign name and disambiguated
// with random suffixes until the campaign store confirms uniqueness.
//
// Generation only checks uniqueness, it does not reserve the value: the
// lifecycle controller persists atomically and the storage-level unique
// index remains the authoritative guard.
package slug

import (
	"context"
	"fmt"

	"github.com/classfund/classfund/internal/platform/id"
	gslug "github.com/gosimple/slug"
)

const (
	// maxBaseLength bounds the name-derived portion of a slug.
	maxBaseLength = 60
	// maxSuffixAttempts bounds name-derived retries before falling back
	// to a fully random token.
	maxSuffixAttempts = 5
	suffixLength      = 6
)

// TakenFunc reports whether a slug is already in use.
type TakenFunc func(ctx context.Context, slug string) (bool, error)

// Generator produces unique slugs against a uniqueness-check collaborator.
type Generator struct {
	taken TakenFunc
	newID func() (string, error)
}

// NewGenerator creates a Generator with the default random token source.
func NewGenerator(taken TakenFunc) *Generator {
	return &Generator{taken: taken, newID: id.NewID}
}

// NewGeneratorWithIDSource creates a Generator with an injected token
// source, for tests.
func NewGeneratorWithIDSource(taken TakenFunc, newID func() (string, error)) *Generator {
	return &Generator{taken: taken, newID: newID}
}

// Generate derives a slug from the candidate name, retrying with random
// suffixes on collision. Runs exactly once per campaign, at creation.
func (g *Generator) Generate(ctx context.Context, name string) (string, error) {
	if g == nil || g.taken == nil {
		return "", fmt.Errorf("slug generator is not configured")
	}

	base := gslug.Make(name)
	if len(base) > maxBaseLength {
		base = base[:maxBaseLength]
	}

	if base != "" {
		taken, err := g.taken(ctx, base)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", base, err)
		}
		if !taken {
			return base, nil
		}

		for range maxSuffixAttempts {
			suffix, err := g.randomToken(suffixLength)
			if err != nil {
				return "", err
			}
			candidate := base + "-" + suffix
			taken, err := g.taken(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("check slug %q: %w", candidate, err)
			}
			if !taken {
				return candidate, nil
			}
		}
	}

	// Name-derived candidates exhausted (or the name yields no slug);
	// fall back to a full random token.
	for range maxSuffixAttempts {
		candidate, err := g.newID()
		if err != nil {
			return "", fmt.Errorf("generate slug token: %w", err)
		}
		taken, err := g.taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("could not generate a unique slug for %q", name)
}

func (g *Generator) randomToken(length int) (string, error) {
	token, err := g.newID()
	if err != nil {
		return "", fmt.Errorf("generate slug suffix: %w", err)
	}
	if len(token) > length {
		token = token[:length]
	}
	return token, nil
}
