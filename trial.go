package lotto

// runTrial executes one backend invocation for the request. With fixed
// numbers present, the backend draws only the free slots from the pool that
// excludes them, and the result is the union of both parts.
func runTrial(b Backend, src RandomSource, req DrawRequest) ([]int, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if len(req.FixedNumbers) == 0 {
		return b.Draw(src, req.Size, req.MaxNumber)
	}

	// The backend sees a compacted pool of the non-fixed candidates: it
	// draws freeSlots values in [1, MaxNumber-len(fixed)] and each value is
	// mapped to the k-th smallest candidate outside the fixed set.
	fixed := make(map[int]struct{}, len(req.FixedNumbers))
	for _, n := range req.FixedNumbers {
		fixed[n] = struct{}{}
	}
	candidates := make([]int, 0, req.MaxNumber-len(req.FixedNumbers))
	for n := 1; n <= req.MaxNumber; n++ {
		if _, isFixed := fixed[n]; !isFixed {
			candidates = append(candidates, n)
		}
	}

	drawn, err := b.Draw(src, req.freeSlots(), len(candidates))
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, req.Size)
	out = append(out, req.FixedNumbers...)
	for _, d := range drawn {
		out = append(out, candidates[d-1])
	}
	return out, nil
}
