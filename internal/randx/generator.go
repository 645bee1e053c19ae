// Package randx generates the demonstration data set: usernames, emails,
// full names and avatar URLs. The Generator interface exists so tests can
// inject deterministic values instead of random ones.
package randx

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Generator produces field values for demo users and profiles.
type Generator interface {
	Username() string
	Email() string
	FullName() string
	AvatarURL() string
}

const (
	letters        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	usernameLength = 10
)

var domains = []string{"example.com", "test.com", "mail.com", "demo.org"}

// RandGenerator produces pseudo-random values from the supplied source.
type RandGenerator struct {
	rnd *rand.Rand
}

// New returns a generator seeded with the given value. The same seed yields
// the same sequence, which the demo uses to make reruns reproducible.
func New(seed int64) *RandGenerator {
	return &RandGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// Username returns a random name of ASCII letters.
func (g *RandGenerator) Username() string {
	b := make([]byte, usernameLength)
	for i := range b {
		b[i] = letters[g.rnd.Intn(len(letters))]
	}
	return string(b)
}

// Email returns a lowercased random local part at one of the demo domains.
func (g *RandGenerator) Email() string {
	local := strings.ToLower(g.Username())
	domain := domains[g.rnd.Intn(len(domains))]
	return fmt.Sprintf("%s@%s", local, domain)
}

// FullName returns a random given name with a fixed surname.
func (g *RandGenerator) FullName() string {
	return fmt.Sprintf("%s Smith", g.Username())
}

// AvatarURL returns a unique object URL for the profile avatar.
func (g *RandGenerator) AvatarURL() string {
	return fmt.Sprintf("https://example.com/avatars/%s.png", uuid.New())
}
