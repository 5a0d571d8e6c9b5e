package scoring

const (
	requiredStrong   = 0.6
	preferredStrong  = 0.5
	experienceStrong = 0.5
	projectsStrong   = 0.5
	semanticStrong   = 0.5
)

func explain(component string, value float64) string {
	switch component {
	case ComponentRequired:
		if value < requiredStrong {
			return "Missing several core required skills."
		}
		return "Has most of the core required skills."
	case ComponentPreferred:
		if value >= preferredStrong {
			return "Also has several preferred skills (plus)."
		}
		return "Lacks many preferred skills (opportunity to upskill)."
	case ComponentExperience:
		if value < experienceStrong {
			return "Insufficient experience for the stated requirement."
		}
		return "Experience level fits the requirement."
	case ComponentProjects:
		if value < projectsStrong {
			return "Projects show little overlap with the role responsibilities."
		}
		return "Projects align with the role responsibilities."
	case ComponentSemantic:
		if value < semanticStrong {
			return "Résumé wording shares little with the role description."
		}
		return "Résumé wording closely follows the role description."
	}
	return ""
}
