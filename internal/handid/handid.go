// Package handid generates sortable identifiers for dealt hands.
//
// An ID is a UUIDv7 rendered as 26 characters of Crockford base32, so IDs
// sort by the time the hand was finished.
package handid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coder/quartz"
)

const (
	// Length is the number of characters in an ID.
	Length = 26

	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
)

// Generator produces hand IDs from a clock and a source of random bytes.
type Generator struct {
	clock   quartz.Clock
	entropy io.Reader
}

// NewGenerator creates a generator. A nil clock uses the wall clock and a nil
// entropy source uses crypto/rand.
func NewGenerator(clock quartz.Clock, entropy io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{clock: clock, entropy: entropy}
}

// New returns a fresh hand ID.
func (g *Generator) New() (string, error) {
	uuid, err := g.uuidV7(g.clock.Now())
	if err != nil {
		return "", err
	}
	return encode(uuid), nil
}

// uuidV7 lays out a 48-bit millisecond timestamp, the version and variant
// bits, and 74 random bits.
func (g *Generator) uuidV7(now time.Time) ([16]byte, error) {
	var uuid [16]byte

	ms := now.UnixMilli()
	uuid[0] = byte(ms >> 40)
	uuid[1] = byte(ms >> 32)
	uuid[2] = byte(ms >> 24)
	uuid[3] = byte(ms >> 16)
	uuid[4] = byte(ms >> 8)
	uuid[5] = byte(ms)

	if _, err := io.ReadFull(g.entropy, uuid[6:]); err != nil {
		return uuid, fmt.Errorf("read entropy: %w", err)
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid, nil
}

// encode writes 128 bits as 26 base32 digits, padding the low end with two
// zero bits.
func encode(data [16]byte) string {
	var sb strings.Builder
	sb.Grow(Length)

	for i := range Length {
		bit := i * 5
		var value byte
		for j := range 5 {
			pos := bit + j
			value <<= 1
			if pos < 128 && data[pos/8]&(0x80>>(pos%8)) != 0 {
				value |= 1
			}
		}
		sb.WriteByte(alphabet[value])
	}
	return sb.String()
}

// Time returns the millisecond timestamp embedded in id.
func Time(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	// The first 48 bits are the first 9.6 characters.
	var ms int64
	for i := range 10 {
		ms = ms<<5 | int64(strings.IndexByte(alphabet, id[i]))
	}
	ms >>= 2
	return time.UnixMilli(ms), nil
}

// Validate checks that id is 26 lowercase base32 characters.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i := range len(id) {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %q at position %d", id[i], i)
		}
	}
	return nil
}
