package scoring

// SkillCoverage returns the fractions of required and preferred skills the candidate lists.
// Matching is case-insensitive and set-based. An empty wanted list counts as fully covered.
func SkillCoverage(candidateSkills, required, preferred []string) (float64, float64) {
	have := make(map[string]struct{}, len(candidateSkills))
	for _, s := range uniqueNormalized(candidateSkills) {
		have[s] = struct{}{}
	}

	return coverage(have, required), coverage(have, preferred)
}

func coverage(have map[string]struct{}, wanted []string) float64 {
	want := uniqueNormalized(wanted)
	if len(want) == 0 {
		return 1
	}

	hits := 0
	for _, w := range want {
		if _, ok := have[w]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(want))
}

// SkillGap lists the required skills the candidate lacks, normalized and deduplicated,
// in the order the role lists them.
func SkillGap(candidateSkills, required []string) []string {
	have := make(map[string]struct{}, len(candidateSkills))
	for _, s := range uniqueNormalized(candidateSkills) {
		have[s] = struct{}{}
	}

	gap := make([]string, 0)
	for _, r := range uniqueNormalized(required) {
		if _, ok := have[r]; !ok {
			gap = append(gap, r)
		}
	}

	return gap
}
