package learning

import "strings"

// ResourceTable maps a lowercase skill to curated learning resources. It is read-only
// once built.
type ResourceTable struct {
	bySkill map[string][]string
}

// DefaultResources returns the built-in curated table.
func DefaultResources() *ResourceTable {
	return NewResourceTable(map[string][]string{
		"python":           {"Intro to Python (freecodecamp)", "Automate the Boring Stuff (book)"},
		"docker":           {"Docker Get Started (docs.docker.com)", "Play with Docker labs"},
		"aws":              {"AWS Cloud Practitioner Essentials (free)", "AWS Hands-on Labs"},
		"machine learning": {"Andrew Ng ML course (Coursera)", "Hands-On ML with Scikit-Learn"},
		"sql":              {"Mode SQL Tutorial", "SQLBolt interactive lessons"},
		"fastapi":          {"FastAPI official tutorial", "Build APIs with FastAPI (YouTube)"},
	})
}

// NewResourceTable copies resources, lowercasing and trimming skill keys.
func NewResourceTable(resources map[string][]string) *ResourceTable {
	t := &ResourceTable{bySkill: make(map[string][]string, len(resources))}
	for skill, items := range resources {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			continue
		}
		t.bySkill[key] = append(t.bySkill[key], items...)
	}
	return t
}

// Lookup returns the curated resources for skill, or a search hint when none are known.
func (t *ResourceTable) Lookup(skill string) []string {
	key := strings.ToLower(strings.TrimSpace(skill))
	if t != nil {
		if items, ok := t.bySkill[key]; ok && len(items) > 0 {
			return append([]string(nil), items...)
		}
	}
	return []string{"Search tutorial for " + strings.TrimSpace(skill) + " on Coursera/Udemy/YouTube"}
}
