package scoring

import "math"

// DefaultProjectThreshold is the similarity below which a responsibility counts as unmatched.
const DefaultProjectThreshold = 0.35

// ProjectRelevance averages, over responsibilities, the best similarity any project reaches,
// counting matches under threshold as zero. Blank entries are ignored. No responsibilities
// scores 1, no projects scores 0. The result is rounded to three decimals.
func ProjectRelevance(projects, responsibilities []string, threshold float64) float64 {
	resps := nonBlankNormalized(responsibilities)
	if len(resps) == 0 {
		return 1
	}

	projs := nonBlankNormalized(projects)
	if len(projs) == 0 {
		return 0
	}

	if math.IsNaN(threshold) || threshold < 0 {
		threshold = DefaultProjectThreshold
	}

	total := 0.0
	for _, r := range resps {
		best := 0.0
		for _, p := range projs {
			if s := similarityNormalized(p, r); s > best {
				best = s
			}
		}
		if best >= threshold {
			total += best
		}
	}

	return round(clamp01(total/float64(len(resps))), 3)
}
