package prefs

import "math"

// Euclidean returns the L2 distance between two equal-length vectors. Extra
// components of the longer vector are ignored by truncating to the shorter
// length; callers are expected to pass same-shaped vectors.
func Euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of two vectors, defined as 0 when
// either vector has zero magnitude.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// PlayDistance is the Euclidean distance between two play vectors.
func PlayDistance(a, b PlayVector) float64 {
	axesA, axesB := a.Axes(), b.Axes()
	return Euclidean(axesA[:], axesB[:])
}

// FoodAffinity scores how much a food activity matches a preference map: the
// sum of the preference score of every attribute the activity exhibits.
// Attributes absent from the activity contribute nothing, even when the
// preference score is negative; the measure rewards only what is present.
func FoodAffinity(scores map[AttributeKey]float64, attrs FoodAttributes) float64 {
	var total float64
	for _, key := range attrs.Keys() {
		total += scores[key]
	}
	return total
}

// AttractionDistance maps the attribute overlap of two food activities to a
// distance in (0, 1]: 1/(1+overlap), so sharing more attributes means a
// smaller distance and disjoint sets score exactly 1.
func AttractionDistance(a, b FoodAttributes) float64 {
	overlap := 0
	for _, family := range FoodFamilies {
		tags := make(map[string]struct{}, len(a.Family(family)))
		for _, name := range a.Family(family) {
			tags[name] = struct{}{}
		}
		for _, name := range b.Family(family) {
			if _, ok := tags[name]; ok {
				overlap++
			}
		}
	}
	return 1 / float64(1+overlap)
}
