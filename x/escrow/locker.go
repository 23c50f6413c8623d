package escrow

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/iov-one/trustvault"
)

// stripeCount must be a power of two.
const stripeCount = 256

// lockSet serializes transitions that share an identity. Identities are
// mapped onto a fixed number of mutexes, so two unrelated identities may
// share a mutex. That only serializes more than needed.
type lockSet struct {
	stripes [stripeCount]sync.Mutex
}

// acquire locks all mutexes covering given identities and returns the
// function that releases them. Mutexes are always taken in ascending order,
// so two callers can never wait for each other.
func (l *lockSet) acquire(ids ...trustvault.Identity) (release func()) {
	idx := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		i := stripe(id)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	for _, i := range idx {
		l.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			l.stripes[idx[j]].Unlock()
		}
	}
}

func stripe(id trustvault.Identity) int {
	// Identities are hashes or public keys, their last bytes are evenly
	// distributed.
	return int(binary.BigEndian.Uint32(id[trustvault.IdentityLength-4:]) & (stripeCount - 1))
}
