package analysis

import "math"

// Extrema returns the indices of local extrema of offsets whose magnitude
// exceeds floor times the largest magnitude.
func Extrema(offsets []float64, floor float64) []int {
	peak := 0.0
	for _, v := range offsets {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return nil
	}

	var idx []int
	for i := 1; i < len(offsets)-1; i++ {
		prev, cur, next := offsets[i-1], offsets[i], offsets[i+1]
		isMax := cur > prev && cur >= next
		isMin := cur < prev && cur <= next
		if (isMax || isMin) && math.Abs(cur) > floor*peak {
			idx = append(idx, i)
		}
	}
	return idx
}

// DampingRatio estimates the damping ratio of an underdamped oscillation
// around zero using the logarithmic decrement of successive extrema, which
// sit half a period apart. ok is false when fewer than two extrema are
// found.
func DampingRatio(offsets []float64) (zeta float64, ok bool) {
	ext := Extrema(offsets, 1e-6)
	if len(ext) < 2 {
		return 0, false
	}

	sum, n := 0.0, 0
	for i := 1; i < len(ext); i++ {
		a, b := math.Abs(offsets[ext[i-1]]), math.Abs(offsets[ext[i]])
		if a == 0 || b == 0 {
			continue
		}
		sum += math.Log(a / b)
		n++
	}
	if n == 0 {
		return 0, false
	}

	delta := 2 * sum / float64(n)
	return delta / math.Sqrt(4*math.Pi*math.Pi+delta*delta), true
}

// Crossings returns the interpolated times at which offsets changes sign.
func Crossings(times, offsets []float64) []float64 {
	var out []float64
	for i := 1; i < len(offsets) && i < len(times); i++ {
		prev, cur := offsets[i-1], offsets[i]
		if prev == 0 || ((prev < 0) == (cur < 0) && cur != 0) {
			continue
		}
		frac := prev / (prev - cur)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
	}
	return out
}
