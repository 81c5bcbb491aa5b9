package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// Rand is the only source of randomness the simulation reads. *Stream satisfies it;
// tests substitute fixed sequences.
type Rand interface {
	Float64() float64
}

// SeedFromString hashes free-form seed text down to 64 bits.
func SeedFromString(text string) uint64 {
	h := sha256.Sum256([]byte(text))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a deterministic child seed for a label, e.g. "day:3:turn:12:study".
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// RunSeed holds the canonical seed text of a playthrough.
type RunSeed struct {
	Text string
	root uint64
}

var errEmptySeed = errors.New("seed text must not be empty")

func NewRunSeed(seedText string) (RunSeed, error) {
	if seedText == "" {
		return RunSeed{}, errEmptySeed
	}
	return RunSeed{Text: seedText, root: SeedFromString(seedText)}, nil
}

// WithSlot mixes a save slot and content version into the root so two slots sharing
// seed text still diverge.
func (r RunSeed) WithSlot(slot, rulesVersion string) RunSeed {
	if slot == "" && rulesVersion == "" {
		return r
	}
	return RunSeed{Text: r.Text, root: Derive(r.root, slot+"|"+rulesVersion)}
}

// Stream derives a fresh generator for label from the run root.
func (r RunSeed) Stream(label string) *Stream {
	return newStream(Derive(r.root, label))
}

// Stream is a SplitMix64 generator that remembers its seed so it can fork labelled
// children. Not safe for concurrent use.
type Stream struct {
	seed  uint64
	state uint64
}

func newStream(seed uint64) *Stream { return &Stream{seed: seed, state: seed} }

func (s *Stream) Uint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Intn returns a value in [0,n); n <= 0 yields 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Uint64() % uint64(n))
}

// Float64 returns a float in [0,1) built from the top 53 bits.
func (s *Stream) Float64() float64 { return float64(s.Uint64()>>11) / (1 << 53) }

// Child forks a stream from this stream's seed, independent of how far it has been read.
func (s *Stream) Child(label string) *Stream { return newStream(Derive(s.seed, label)) }

// chance rolls a probability in [0,1].
func chance(rng Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return rng.Float64() < p
}
