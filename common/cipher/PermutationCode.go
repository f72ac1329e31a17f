package cipher

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aviddiviner/go-murmur"
)

const (
	Alphabet = "abcdefghijklmnopqrstuvwxyz"

	keySeed uint32 = 0x9747b28c
)

var (
	ErrInvalidCode = errors.New("invalid permutation code")
	ErrInvalidChar = errors.New("character outside alphabet")
)

// PermutationCode substitutes every letter of Alphabet with the letter at the
// same position of its code. Spaces pass through unchanged.
type PermutationCode struct {
	code    [len(Alphabet)]byte
	inverse [len(Alphabet)]byte
}

// New draws a random code from r, a time-seeded source if r is nil.
func New(r *rand.Rand) *PermutationCode {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	letters := []byte(Alphabet)
	code := make([]byte, 0, len(Alphabet))
	for i := len(letters); i > 0; i-- {
		pick := r.Intn(i)
		code = append(code, letters[pick])
		letters = append(letters[:pick], letters[pick+1:]...)
	}
	return fromPermutation(code)
}

// NewKeyed derives the code from key, the same key always gives the same code.
func NewKeyed(key string) *PermutationCode {
	h := murmur.New32(keySeed)
	h.Write([]byte(key))
	return New(rand.New(rand.NewSource(int64(h.Sum32()))))
}

// NewWithCode uses code as is, it must be a permutation of Alphabet.
func NewWithCode(code string) (*PermutationCode, error) {
	if len(code) != len(Alphabet) {
		return nil, fmt.Errorf("%w: expect %d letters, got %d", ErrInvalidCode, len(Alphabet), len(code))
	}
	var seen [len(Alphabet)]bool
	for i := 0; i < len(code); i++ {
		pos := strings.IndexByte(Alphabet, code[i])
		if pos < 0 {
			return nil, fmt.Errorf("%w: %q is not a letter", ErrInvalidCode, code[i])
		}
		if seen[pos] {
			return nil, fmt.Errorf("%w: %q repeated", ErrInvalidCode, code[i])
		}
		seen[pos] = true
	}
	return fromPermutation([]byte(code)), nil
}

// fromPermutation expects code to already be a permutation of Alphabet.
func fromPermutation(code []byte) *PermutationCode {
	p := &PermutationCode{}
	for i, c := range code {
		p.code[i] = c
		p.inverse[c-'a'] = Alphabet[i]
	}
	return p
}

func (p *PermutationCode) Code() string {
	return string(p.code[:])
}

func (p *PermutationCode) Encode(source string) (string, error) {
	return translate(source, &p.code)
}

func (p *PermutationCode) Decode(code string) (string, error) {
	return translate(code, &p.inverse)
}

// translate maps every letter c to table[c-'a'].
func translate(s string, table *[len(Alphabet)]byte) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			out[i] = c
		case c >= 'a' && c <= 'z':
			out[i] = table[c-'a']
		default:
			return "", fmt.Errorf("%w: %q at %d", ErrInvalidChar, c, i)
		}
	}
	return string(out), nil
}
