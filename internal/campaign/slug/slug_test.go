package slug

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func neverTaken(context.Context, string) (bool, error) {
	return false, nil
}

func TestGenerateDerivesFromName(t *testing.T) {
	g := NewGenerator(neverTaken)
	got, err := g.Generate(context.Background(), "Snow Canyon Band Trip!")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "snow-canyon-band-trip" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestGenerateAppendsSuffixOnCollision(t *testing.T) {
	taken := func(_ context.Context, s string) (bool, error) {
		return s == "snow-canyon", nil
	}
	seq := 0
	newID := func() (string, error) {
		seq++
		return fmt.Sprintf("tok%03d%020d", seq, 0), nil
	}
	g := NewGeneratorWithIDSource(taken, newID)

	got, err := g.Generate(context.Background(), "Snow Canyon")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(got, "snow-canyon-") {
		t.Fatalf("expected suffixed slug, got %q", got)
	}
	if len(got) != len("snow-canyon-")+6 {
		t.Fatalf("expected 6-character suffix, got %q", got)
	}
}

func TestGenerateFallsBackToRandomToken(t *testing.T) {
	taken := func(_ context.Context, s string) (bool, error) {
		// Every name-derived candidate collides.
		return strings.HasPrefix(s, "snow-canyon"), nil
	}
	g := NewGeneratorWithIDSource(taken, func() (string, error) {
		return "random-token-abcdefabcdef", nil
	})

	got, err := g.Generate(context.Background(), "Snow Canyon")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "random-token-abcdefabcdef" {
		t.Fatalf("expected random fallback, got %q", got)
	}
}

func TestGenerateTruncatesLongNames(t *testing.T) {
	g := NewGenerator(neverTaken)
	got, err := g.Generate(context.Background(), strings.Repeat("very long campaign name ", 10))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) > 60 {
		t.Fatalf("expected slug capped at 60 characters, got %d", len(got))
	}
}

func TestGenerateRandomSlugForUnsluggableName(t *testing.T) {
	g := NewGeneratorWithIDSource(neverTaken, func() (string, error) {
		return "fallback-token", nil
	})
	got, err := g.Generate(context.Background(), "!!!")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "fallback-token" {
		t.Fatalf("expected random token for unsluggable name, got %q", got)
	}
}

func TestGeneratePropagatesCheckError(t *testing.T) {
	g := NewGenerator(func(context.Context, string) (bool, error) {
		return false, fmt.Errorf("store offline")
	})
	if _, err := g.Generate(context.Background(), "Snow Canyon"); err == nil {
		t.Fatal("expected error from uniqueness check")
	}
}
