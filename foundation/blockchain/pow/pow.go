// Package pow implements the proof of work puzzle that gates the creation of
// blocks. A proof is valid for a parent proof when the sha256 digest of the
// two numbers written in decimal, parent first and with no separator, starts
// with Difficulty hex zeros.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Difficulty is the number of leading hex zeros a digest needs.
const Difficulty = 4

// checkInterval is how many candidates a worker tests between looking at
// the context for cancellation.
const checkInterval = 1 << 12

// ErrNotFound is returned when the search exhausts its attempt bound without
// finding a valid proof.
var ErrNotFound = errors.New("no proof found within the attempt bound")

// =============================================================================

// IsValidProof reports whether proof solves the puzzle for lastProof.
func IsValidProof(lastProof uint64, proof uint64) bool {
	guess := strconv.AppendUint(nil, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	hash := sha256.Sum256(guess)
	return isHashSolved(hex.EncodeToString(hash[:]))
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(hash string) bool {
	const match = "0000000000000000"

	if len(hash) != 64 {
		return false
	}

	return hash[:Difficulty] == match[:Difficulty]
}

// =============================================================================

// Config controls a proof search.
type Config struct {
	Workers     int                          // Number of G's searching. 0 means one per CPU.
	MaxAttempts uint64                       // Candidates [0, MaxAttempts) are tested. 0 means unbounded.
	EvHandler   func(v string, args ...any) // Optional progress reporting.
}

// FindProof performs a linear search starting at 0 and returns the first
// proof that solves the puzzle for lastProof, which makes it the smallest
// valid proof. The search stops early when the context is cancelled.
func FindProof(ctx context.Context, lastProof uint64) (uint64, error) {
	return Search(ctx, lastProof, Config{Workers: 1})
}

// Search finds the smallest valid proof using the configured number of G's.
// The candidate space is partitioned by stride: worker w tests w, w+n, w+2n
// and so on. Once any worker finds a solution, every worker stops as soon as
// its next candidate is larger than the best solution known, so the result
// is the same as a linear search. Search does not return until all of its
// G's have terminated, including on cancellation.
func Search(ctx context.Context, lastProof uint64, cfg Config) (uint64, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	limit := uint64(math.MaxUint64)
	if cfg.MaxAttempts > 0 {
		limit = cfg.MaxAttempts
	}

	ev("pow: Search: started: lastProof[%d]: workers[%d]", lastProof, workers)
	start := time.Now()

	s := search{
		lastProof: lastProof,
		stride:    uint64(workers),
		limit:     limit,
	}
	s.best.Store(math.MaxUint64)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func(first uint64) {
			defer wg.Done()
			s.run(ctx, first)
		}(uint64(w))
	}

	wg.Wait()

	proof := s.best.Load()
	attempts := s.attempts.Load()

	switch {
	case proof != math.MaxUint64:
		ev("pow: Search: SOLVED: lastProof[%d]: proof[%d]: attempts[%d]: duration[%v]", lastProof, proof, attempts, time.Since(start))
		return proof, nil

	case ctx.Err() != nil:
		ev("pow: Search: CANCELLED: lastProof[%d]: attempts[%d]", lastProof, attempts)
		return 0, ctx.Err()

	default:
		ev("pow: Search: NOT FOUND: lastProof[%d]: attempts[%d]", lastProof, attempts)
		return 0, ErrNotFound
	}
}

// =============================================================================

// search holds the shared state for the G's of a single Search call.
type search struct {
	lastProof uint64
	stride    uint64
	limit     uint64
	best      atomic.Uint64
	attempts  atomic.Uint64
}

// run tests the candidates owned by one worker until it passes the best
// known solution, the limit, or the context is cancelled.
func (s *search) run(ctx context.Context, candidate uint64) {
	var tested uint64
	defer func() {
		s.attempts.Add(tested)
	}()

	for candidate < s.limit && candidate < s.best.Load() {
		if tested%checkInterval == 0 && ctx.Err() != nil {
			return
		}
		tested++

		if IsValidProof(s.lastProof, candidate) {
			s.offer(candidate)
			return
		}

		if candidate > math.MaxUint64-s.stride {
			return
		}
		candidate += s.stride
	}
}

// offer records the candidate if it is smaller than the best solution.
func (s *search) offer(candidate uint64) {
	for {
		best := s.best.Load()
		if candidate >= best {
			return
		}
		if s.best.CompareAndSwap(best, candidate) {
			return
		}
	}
}
