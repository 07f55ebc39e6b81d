package session

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Session IDs are ULIDs: 26 Crockford Base32 characters, a 48-bit
// millisecond timestamp followed by 80 random bits.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns a new, time-sortable session ID.
func NewID() string {
	return newULID(time.Now())
}

func newULID(now time.Time) string {
	ulidMu.Lock()
	ts := uint64(now.UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}
	seq := lastSeq
	ulidMu.Unlock()

	var b [16]byte
	for i := 0; i < 6; i++ {
		b[i] = byte(ts >> (40 - 8*i))
	}
	rand.Read(b[6:])
	// The sequence keeps IDs issued within one millisecond distinct.
	binary.BigEndian.PutUint16(b[6:8], seq)

	return encodeCrockford(b)
}

// encodeCrockford encodes 128 bits as 26 characters, most significant first.
// The first character carries only the top 3 bits.
func encodeCrockford(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
