package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/fitscore/internal/schemas"
)

// LoadCandidate reads a single candidate JSON document.
func LoadCandidate(path string) (*Candidate, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, &DocumentError{Path: path, Message: "candidate document must be a JSON object"}
	}

	candidate, err := DecodeCandidate(doc)
	if err != nil {
		return nil, &DocumentError{Path: path, Message: "decode candidate", Cause: err}
	}

	return candidate, nil
}

// LoadCandidates reads candidate documents from files and directories. Directories are
// scanned (non-recursively) for *.json files in lexical order.
func LoadCandidates(paths []string) ([]*Candidate, error) {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, &DocumentError{Path: p, Message: "stat", Cause: err}
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, &DocumentError{Path: p, Message: "list directory", Cause: err}
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	candidates := make([]*Candidate, 0, len(files))
	for _, f := range files {
		c, err := LoadCandidate(f)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// LoadRoles reads a role document. The file may hold a single role object, an array
// of roles, or an object with a "roles" array (a role catalog).
func LoadRoles(path string) ([]*Role, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if catalog, ok := v["roles"].([]any); ok {
			items = catalog
		} else {
			items = []any{v}
		}
	default:
		return nil, &DocumentError{Path: path, Message: "role document must be a JSON object or array"}
	}

	roles := make([]*Role, 0, len(items))
	for i, item := range items {
		doc, ok := item.(map[string]any)
		if !ok {
			return nil, &DocumentError{Path: path, Message: fmt.Sprintf("role #%d is not an object", i)}
		}

		role, err := DecodeRole(doc)
		if err != nil {
			return nil, &DocumentError{Path: path, Message: fmt.Sprintf("decode role #%d", i), Cause: err}
		}
		roles = append(roles, role)
	}

	if len(roles) == 0 {
		return nil, &DocumentError{Path: path, Message: "no roles found"}
	}

	return roles, nil
}

// DecodeCandidate validates a generic JSON document and converts it into a Candidate.
// Candidates without an id receive a random one so batch results stay addressable.
func DecodeCandidate(doc map[string]any) (*Candidate, error) {
	if err := schemas.Validate(schemas.Candidate, doc); err != nil {
		return nil, err
	}

	var candidate Candidate
	if err := decode(doc, &candidate); err != nil {
		return nil, err
	}

	if strings.TrimSpace(candidate.ID) == "" {
		candidate.ID = uuid.NewString()
	}

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	return &candidate, nil
}

// DecodeRole validates a generic JSON document and converts it into a Role.
// Synonym keys are lowercased with whitespace collapsed so lookups by normalized skill succeed.
func DecodeRole(doc map[string]any) (*Role, error) {
	if err := schemas.Validate(schemas.Role, doc); err != nil {
		return nil, err
	}

	var role Role
	if err := decode(doc, &role); err != nil {
		return nil, err
	}

	if len(role.Synonyms) > 0 {
		lowered := make(map[string][]string, len(role.Synonyms))
		for k, v := range role.Synonyms {
			key := strings.ToLower(strings.Join(strings.Fields(k), " "))
			lowered[key] = append(lowered[key], v...)
		}
		role.Synonyms = lowered
	}

	if err := role.Validate(); err != nil {
		return nil, err
	}

	return &role, nil
}

func decode(doc map[string]any, out any) error {
	var hookErr error
	hook := mapstructure.DecodeHookFuncType(func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.Float64 {
			return data, nil
		}
		years, err := ParseExperienceYears(data)
		if err != nil {
			hookErr = err
			return nil, err
		}
		return years, nil
	})

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: hook,
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(doc); err != nil {
		if hookErr != nil {
			return hookErr
		}
		return err
	}

	return nil
}

func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Message: "read", Cause: err}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DocumentError{Path: path, Message: "parse json", Cause: err}
	}

	return raw, nil
}
