package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/fitscore/internal/profile"
)

var errNoRoleChoice = errors.New("several roles found: choose one with --role-title")

// roleChooser asks the user to pick one of the titles and returns its index.
type roleChooser func(titles []string) (int, error)

func promptRole(titles []string) (int, error) {
	if !interactive() {
		return 0, errNoRoleChoice
	}

	prompt := promptui.Select{
		Label: "Choose a role",
		Items: titles,
		Size:  10,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("choosing role: %w", err)
	}
	return idx, nil
}

func interactive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// selectRole picks the role named by title (title or ID, case-insensitive). Without a title a
// single role is taken as is and several roles are offered to choose.
func selectRole(roles []*profile.Role, title string, choose roleChooser) (*profile.Role, error) {
	if len(roles) == 0 {
		return nil, errors.New("no roles loaded")
	}

	title = strings.TrimSpace(title)
	if title != "" {
		for _, r := range roles {
			if strings.EqualFold(r.Title, title) || strings.EqualFold(r.ID, title) {
				return r, nil
			}
		}
		return nil, fmt.Errorf("role %q not found (available: %s)", title, strings.Join(roleTitles(roles), ", "))
	}

	if len(roles) == 1 {
		return roles[0], nil
	}

	idx, err := choose(roleTitles(roles))
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(roles) {
		return nil, fmt.Errorf("role choice %d out of range", idx)
	}
	return roles[idx], nil
}

func roleTitles(roles []*profile.Role) []string {
	titles := make([]string, 0, len(roles))
	for i, r := range roles {
		switch {
		case r.Title != "":
			titles = append(titles, r.Title)
		case r.ID != "":
			titles = append(titles, r.ID)
		default:
			titles = append(titles, fmt.Sprintf("role #%d", i+1))
		}
	}
	return titles
}

func loadRole(path, title string) (*profile.Role, error) {
	roles, err := profile.LoadRoles(path)
	if err != nil {
		return nil, err
	}
	return selectRole(roles, title, promptRole)
}
