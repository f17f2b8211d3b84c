package session

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
)

// Session is the gateway login state of this process: the client id handed
// out by the registration request and the command sequence issued under it
type Session struct {
	Token    string
	Sequence uint64
}

// New returns a fresh session for token, sequence numbering starts again at 1
func New(token string) *Session {
	return &Session{Token: token}
}

// Next advances the sequence and returns the value for the next command
func (s *Session) Next() uint64 {
	s.Sequence++
	return s.Sequence
}

// Reset installs a new token, as after a successful login
func (s *Session) Reset(token string) {
	s.Token = token
	s.Sequence = 0
}

func HashOf(s string) string {
	if s == "" {
		return ""
	}

	sum := sha1.Sum([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// obfuscate the token when stringified
func (s Session) String() string {
	return fmt.Sprintf("token [%s] sequence [%d]", HashOf(s.Token), s.Sequence)
}
