package lotto

// Backend is one of a closed set of sampling-without-replacement strategies.
// Each maps (size, maxNumber) to a set of size distinct integers in
// [1, maxNumber]. Backends are stateless; all randomness comes from the
// RandomSource passed to Draw.
type Backend string

const (
	// PickAndRemove deals from a mutable pool, removing each picked element.
	// Uniform over all size-subsets.
	PickAndRemove Backend = "pick-and-remove"

	// RetryUntilUnique draws integers with replacement into a set until it
	// reaches the requested size. Uniform, but the running time is unbounded
	// (almost surely finite): as size approaches maxNumber the expected
	// number of draws grows coupon-collector style. That is inherent to the
	// algorithm; there is no iteration cap.
	RetryUntilUnique Backend = "retry-until-unique"

	// SinglePassSample performs a partial Fisher-Yates over the pool,
	// touching only size positions. Uniform, and the sampling work is
	// proportional to size regardless of how close size is to maxNumber.
	SinglePassSample Backend = "single-pass-sample"

	// FullShuffleWindow shuffles the whole pool and takes a contiguous
	// window of length size at a random offset. Deliberately NOT uniform
	// over all size-subsets: only subsets that appear as contiguous runs of
	// some permutation-window are reachable with equal weight, which biases
	// the joint distribution. Kept as a distinct randomization flavor.
	FullShuffleWindow Backend = "full-shuffle-window"
)

var allBackends = [...]Backend{
	PickAndRemove,
	RetryUntilUnique,
	SinglePassSample,
	FullShuffleWindow,
}

// Backends returns the closed set of valid backends
func Backends() []Backend {
	out := make([]Backend, len(allBackends))
	copy(out, allBackends[:])
	return out
}

// ResolveBackend maps a backend name to a Backend. Unknown or empty names
// are not an error: a uniformly random valid backend is substituted and
// known=false reports the substitution so callers can surface it.
func ResolveBackend(name string, src RandomSource) (backend Backend, known bool, err error) {
	for _, b := range allBackends {
		if string(b) == name {
			return b, true, nil
		}
	}
	idx, err := src.Intn(len(allBackends))
	if err != nil {
		return "", false, err
	}
	return allBackends[idx], false, nil
}

// Draw produces size distinct integers in [1, maxNumber] using the
// backend's strategy. Parameters are validated on every invocation.
func (b Backend) Draw(src RandomSource, size, maxNumber int) ([]int, error) {
	if err := ValidateDrawParams(size, maxNumber); err != nil {
		return nil, err
	}

	switch b {
	case PickAndRemove:
		return drawPickAndRemove(src, size, maxNumber)
	case RetryUntilUnique:
		return drawRetryUntilUnique(src, size, maxNumber)
	case SinglePassSample:
		return drawSinglePassSample(src, size, maxNumber)
	case FullShuffleWindow:
		return drawFullShuffleWindow(src, size, maxNumber)
	default:
		// A Backend value outside the closed set behaves like an unknown
		// name: substitute a random valid strategy rather than failing.
		resolved, _, err := ResolveBackend(string(b), src)
		if err != nil {
			return nil, err
		}
		return resolved.Draw(src, size, maxNumber)
	}
}

// newPool builds the candidate pool [1, maxNumber]
func newPool(maxNumber int) []int {
	pool := make([]int, maxNumber)
	for i := range pool {
		pool[i] = i + 1
	}
	return pool
}

// drawPickAndRemove repeatedly picks a random index into the shrinking pool
// and collects the element there. Every remaining element is equally likely
// at each step, so the resulting combination is uniform.
func drawPickAndRemove(src RandomSource, size, maxNumber int) ([]int, error) {
	pool := newPool(maxNumber)
	out := make([]int, 0, size)
	for len(out) < size {
		idx, err := src.Intn(len(pool))
		if err != nil {
			return nil, err
		}
		out = append(out, pool[idx])
		// swap-remove; pool order does not matter
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return out, nil
}

// drawRetryUntilUnique draws with replacement, discarding duplicates, until
// size distinct numbers have accumulated. The loop terminates almost surely;
// the explicit len(seen) == size predicate is the only exit condition.
func drawRetryUntilUnique(src RandomSource, size, maxNumber int) ([]int, error) {
	seen := make(map[int]struct{}, size)
	out := make([]int, 0, size)
	for len(out) < size {
		v, err := src.Intn(maxNumber)
		if err != nil {
			return nil, err
		}
		n := v + 1
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// drawSinglePassSample runs a partial Fisher-Yates: only the first size
// positions are fixed, each swap choosing uniformly from the untouched tail.
func drawSinglePassSample(src RandomSource, size, maxNumber int) ([]int, error) {
	pool := newPool(maxNumber)
	for i := 0; i < size; i++ {
		j, err := src.Intn(maxNumber - i)
		if err != nil {
			return nil, err
		}
		j += i
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:size:size], nil
}

// drawFullShuffleWindow shuffles the whole pool (Fisher-Yates) and grabs a
// contiguous window of length size at a uniformly random start offset.
func drawFullShuffleWindow(src RandomSource, size, maxNumber int) ([]int, error) {
	pool := newPool(maxNumber)
	for i := maxNumber - 1; i > 0; i-- {
		j, err := src.Intn(i + 1)
		if err != nil {
			return nil, err
		}
		pool[i], pool[j] = pool[j], pool[i]
	}
	start, err := src.Intn(maxNumber - size + 1)
	if err != nil {
		return nil, err
	}
	out := make([]int, size)
	copy(out, pool[start:start+size])
	return out, nil
}
