package metrics

import "sort"

// estimator is one P-Square marker set: the Jain/Chlamtac streaming
// quantile algorithm, giving O(1) per-observation updates and O(1)
// retrieval without storing the observations themselves.
//
// Reference: Jain, R. and Chlamtac, I. (1985). "The P^2 Algorithm for
// Dynamic Calculation of Quantiles and Histograms Without Storing
// Observations". Communications of the ACM, 28(10), pp. 1076-1085.
//
// The five-marker update/parabolic/linear math below follows the paper
// exactly; deviating from it would silently change the estimate, so
// only the surrounding structure (named quantileSet instead of a
// generic indexed list, below) is this package's own design. Not
// thread-safe; quantileSet's caller (Latency) serializes access.
type estimator struct {
	target float64

	height  [5]float64
	pos     [5]int
	desired [5]float64
	step    [5]float64
	seen    int
	warmup  [5]float64
}

func newEstimator(target float64) *estimator {
	switch {
	case target < 0:
		target = 0
	case target > 1:
		target = 1
	}
	return &estimator{
		target: target,
		step:   [5]float64{0, target / 2, target, (1 + target) / 2, 1},
	}
}

// observe folds one sample into the marker set.
func (e *estimator) observe(x float64) {
	e.seen++
	if e.seen <= 5 {
		e.warmup[e.seen-1] = x
		if e.seen == 5 {
			e.seed()
		}
		return
	}

	var cell int
	switch {
	case x < e.height[0]:
		e.height[0] = x
		cell = 0
	case x >= e.height[4]:
		e.height[4] = x
		cell = 3
	default:
		for cell = 0; cell < 4; cell++ {
			if e.height[cell] <= x && x < e.height[cell+1] {
				break
			}
		}
	}

	for i := cell + 1; i < 5; i++ {
		e.pos[i]++
	}
	for i := 0; i < 5; i++ {
		e.desired[i] += e.step[i]
	}

	for i := 1; i < 4; i++ {
		d := e.desired[i] - float64(e.pos[i])
		if (d >= 1 && e.pos[i+1]-e.pos[i] > 1) || (d <= -1 && e.pos[i-1]-e.pos[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			h := e.parabolic(i, sign)
			if e.height[i-1] < h && h < e.height[i+1] {
				e.height[i] = h
			} else {
				e.height[i] = e.linear(i, sign)
			}
			e.pos[i] += sign
		}
	}
}

// seed sorts the first five samples (via sort.Float64s, not a
// hand-rolled pass) and uses them as the initial marker heights.
func (e *estimator) seed() {
	sort.Float64s(e.warmup[:])

	for i := 0; i < 5; i++ {
		e.height[i] = e.warmup[i]
		e.pos[i] = i
	}
	e.desired = [5]float64{0, 2 * e.target, 4 * e.target, 2 + 2*e.target, 4}
}

func (e *estimator) parabolic(i, d int) float64 {
	df := float64(d)
	pi := float64(e.pos[i])
	pPrev := float64(e.pos[i-1])
	pNext := float64(e.pos[i+1])

	a := df / (pNext - pPrev)
	b := (pi - pPrev + df) * (e.height[i+1] - e.height[i]) / (pNext - pi)
	c := (pNext - pi - df) * (e.height[i] - e.height[i-1]) / (pi - pPrev)
	return e.height[i] + a*(b+c)
}

func (e *estimator) linear(i, d int) float64 {
	if d == 1 {
		return e.height[i] + (e.height[i+1]-e.height[i])/float64(e.pos[i+1]-e.pos[i])
	}
	return e.height[i] - (e.height[i]-e.height[i-1])/float64(e.pos[i]-e.pos[i-1])
}

// value returns the current quantile estimate.
func (e *estimator) value() float64 {
	if e.seen == 0 {
		return 0
	}
	if e.seen < 5 {
		sorted := append([]float64(nil), e.warmup[:e.seen]...)
		sort.Float64s(sorted)
		idx := int(float64(e.seen-1) * e.target)
		if idx >= e.seen {
			idx = e.seen - 1
		}
		return sorted[idx]
	}
	return e.height[2]
}

// quantileSet tracks the four percentiles Latency reports (P50/P90/P95/
// P99) as named fields rather than a generic percentile-indexed slice:
// this package has exactly one consumer and never needs an arbitrary
// percentile list, so there is no reason to carry that indirection.
// max rides alongside for Latency's Max; sum/count are maintained here
// too, though Latency computes Mean from its own running totals.
type quantileSet struct {
	p50, p90, p95, p99 *estimator
	sum                float64
	count              int
	max                float64
}

func newQuantileSet() *quantileSet {
	return &quantileSet{
		p50: newEstimator(0.50),
		p90: newEstimator(0.90),
		p95: newEstimator(0.95),
		p99: newEstimator(0.99),
	}
}

func (qs *quantileSet) update(x float64) {
	qs.count++
	qs.sum += x
	if qs.count == 1 || x > qs.max {
		qs.max = x
	}
	qs.p50.observe(x)
	qs.p90.observe(x)
	qs.p95.observe(x)
	qs.p99.observe(x)
}
