package snowflake

import (
	"strconv"
	"sync"
	"time"
)

// Epoch is the custom epoch (ms) all generated ids count from.
const Epoch int64 = 1581983347347

const (
	machineBits  = 10
	sequenceBits = 12

	maxMachine  = -1 ^ (-1 << machineBits)
	maxSequence = -1 ^ (-1 << sequenceBits)
)

// Generator produces time-ordered unique ids. Ids embed the creation
// timestamp and a machine discriminator; ordering is approximate only,
// clock skew between machines can reorder neighbours.
type Generator struct {
	mu       sync.Mutex
	machine  int64
	sequence int64
	lastMS   int64
}

func NewGenerator(machine int64) *Generator {
	return &Generator{machine: machine & maxMachine}
}

// Next returns a new id as a decimal string.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now == g.lastMS {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for now <= g.lastMS {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastMS = now

	id := (now-Epoch)<<(machineBits+sequenceBits) |
		g.machine<<sequenceBits |
		g.sequence

	return strconv.FormatInt(id, 10)
}

// Timestamp recovers the creation time embedded in an id.
func Timestamp(id string) (time.Time, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n < 0 {
		return time.Time{}, false
	}
	ms := n>>(machineBits+sequenceBits) + Epoch
	return time.UnixMilli(ms), true
}
