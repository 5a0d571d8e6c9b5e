package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spigell/fitscore/internal/profile"
	"github.com/spigell/fitscore/internal/scoring"
)

// EntryStatus is the shortlisting decision for an entry.
type EntryStatus string

const (
	StatusShortlisted EntryStatus = "shortlisted"
	StatusRejected    EntryStatus = "rejected"
)

// Entry is one ranked candidate.
type Entry struct {
	Rank        int                 `json:"rank"`
	CandidateID string              `json:"candidate_id"`
	Name        string              `json:"name,omitempty"`
	Status      EntryStatus         `json:"status,omitempty"`
	Evaluation  *scoring.Evaluation `json:"evaluation"`

	Candidate *profile.Candidate `json:"-"`
}

// MatchScore returns the entry's match score, or 0 when it has no evaluation.
func (e *Entry) MatchScore() float64 {
	if e == nil || e.Evaluation == nil {
		return 0
	}
	return e.Evaluation.Match.Score
}

// ATSScore returns the entry's ATS score, or 0 when it has no evaluation.
func (e *Entry) ATSScore() float64 {
	if e == nil || e.Evaluation == nil {
		return 0
	}
	return e.Evaluation.ATS.Score
}

// Entries is an ordered ranking, best match first.
type Entries struct {
	RoleID string   `json:"role_id,omitempty"`
	Items  []*Entry `json:"items"`
}

func (e *Entries) Len() int {
	return len(e.Items)
}

func (e *Entries) FindByID(id string) *Entry {
	for _, entry := range e.Items {
		if entry.CandidateID == id {
			return entry
		}
	}
	return nil
}

func (e *Entries) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, entry := range e.Items {
		ids = append(ids, entry.CandidateID)
	}
	return ids
}

// Exclude removes entries whose candidate id is in targets, keeps the order of the rest
// and returns the removed ids.
func (e *Entries) Exclude(targets []string) []string {
	drop := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		drop[t] = struct{}{}
	}

	return e.removeIf(func(entry *Entry) bool {
		_, ok := drop[entry.CandidateID]
		return ok
	})
}

func (e *Entries) removeIf(pred func(*Entry) bool) []string {
	var removed []string
	kept := e.Items[:0]
	for _, entry := range e.Items {
		if pred(entry) {
			removed = append(removed, entry.CandidateID)
			continue
		}
		kept = append(kept, entry)
	}
	e.Items = kept
	e.renumber()
	return removed
}

func (e *Entries) renumber() {
	for i, entry := range e.Items {
		entry.Rank = i + 1
	}
}

// ByStatus groups candidate ids by shortlisting decision. Undecided entries are omitted.
func (e *Entries) ByStatus() map[EntryStatus][]string {
	report := make(map[EntryStatus][]string)
	for _, entry := range e.Items {
		if entry.Status == "" {
			continue
		}
		report[entry.Status] = append(report[entry.Status], entry.CandidateID)
	}
	return report
}

func (e *Entries) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts the entries into exclude-list records stamped with reason.
func (e *Entries) ToExcluded(reason string) *ExcludeList {
	excluded := &ExcludeList{}
	now := time.Now().UTC()
	for _, entry := range e.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ID:         entry.CandidateID,
			Name:       entry.Name,
			Reason:     reason,
			ExcludedAt: now,
		})
	}
	return excluded
}

// ExcludeList is the on-disk list of candidates already handled for a role.
type ExcludeList struct {
	Items []*ExcludedCandidate `json:"items"`
}

type ExcludedCandidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// LoadExcludeList reads an exclude file. An empty file is an empty list.
func LoadExcludeList(path string) (*ExcludeList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return &ExcludeList{}, nil
	}

	var excluded ExcludeList
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %s: %w", path, err)
	}
	return &excluded, nil
}

// Append adds records whose ids are not on the list yet.
func (l *ExcludeList) Append(s *ExcludeList) {
	if s == nil {
		return
	}
	seen := make(map[string]struct{}, len(l.Items))
	for _, item := range l.Items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		l.Items = append(l.Items, item)
	}
}

func (l *ExcludeList) Len() int {
	return len(l.Items)
}

func (l *ExcludeList) IDs() []string {
	ids := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (l *ExcludeList) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
