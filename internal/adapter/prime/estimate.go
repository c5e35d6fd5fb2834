package prime

import "math"

// Mertens' third theorem constant e^gamma
const mertens = 1.781072

// logMagnitude is the natural log of a typical chain origin for the given
// multiplier, at element index of the chain.
func (a *Arithmetic) logMagnitude(primorial, index, protocol uint32) float64 {
	// hash is at least 2^255 and averages 1.5 * 2^255
	l := 255*math.Ln2 + math.Log(1.5)
	l += logPrimorial(primorial)
	if protocol < 2 {
		// the hash already carries 7#
		l -= logPrimorial(7)
	}
	l += math.Log(float64(max(a.AverageMultiplier, 1)))
	l += float64(index) * math.Ln2
	return l
}

func logPrimorial(p uint32) float64 {
	var sum float64
	for _, q := range table {
		if q > p {
			break
		}
		sum += math.Log(float64(q))
	}
	return sum
}

// EstimateCandidatePrimeProbability applies the prime number theorem to a
// number that survived a sieve up to WeavePrime.
func (a *Arithmetic) EstimateCandidatePrimeProbability(primorial, index, protocol uint32) float64 {
	p := mertens * math.Log(float64(a.WeavePrime)) / a.logMagnitude(primorial, index, protocol)
	return math.Min(p, 1)
}

// EstimateNormalPrimeProbability is the same for a number known only to be
// coprime to the primorial.
func (a *Arithmetic) EstimateNormalPrimeProbability(primorial, index, protocol uint32) float64 {
	p := mertens * math.Log(float64(max(primorial, 2))) / a.logMagnitude(primorial, index, protocol)
	return math.Min(p, 1)
}
