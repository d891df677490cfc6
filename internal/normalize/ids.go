package normalize

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// suffixLength is the length of the random part of a card ID.
const suffixLength = 6

// IDGenerator produces the random suffix of card IDs.
type IDGenerator interface {
	Suffix() string
}

// RandomIDs draws suffixes from random UUIDs.
type RandomIDs struct{}

// Suffix returns six lowercase hex characters.
func (RandomIDs) Suffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
}

// SequenceIDs yields predictable suffixes ("000001", "000002", ...).
type SequenceIDs struct {
	mu   sync.Mutex
	next int
}

// Suffix returns the next zero-padded sequence number.
func (s *SequenceIDs) Suffix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%0*d", suffixLength, s.next)
}
