package standings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/gosimple/slug"
)

var (
	ErrGroupNameRequired     = errors.New("group name is required")
	ErrGroupExists           = errors.New("group with this name already exists")
	ErrGroupNotFound         = errors.New("group not found")
	ErrTeamInAnotherGroup    = errors.New("team already belongs to another group")
	ErrTeamsNotInGroup       = errors.New("fixture teams are not members of the group")
	ErrFixtureAlreadyGrouped = errors.New("fixture is already assigned to a group")
	ErrFixtureNotInGroup     = errors.New("fixture is not assigned to the group")
	ErrInvalidQualification  = errors.New("invalid qualification rule")
)

// NameKey normalizes group and round names so that "Group A" and "group-a"
// are treated as the same name.
func NameKey(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

func FindGroupByName(groups []models.Group, name string) (int, bool) {
	key := NameKey(name)
	for i, g := range groups {
		if NameKey(g.Name) == key {
			return i, true
		}
	}
	return -1, false
}

// FindGroup returns the index of the group that holds fixtureID.
func FindGroup(groups []models.Group, fixtureID string) (int, bool) {
	for i, g := range groups {
		for _, id := range g.FixtureIDs {
			if id == fixtureID {
				return i, true
			}
		}
	}
	return -1, false
}

func cloneGroups(groups []models.Group) []models.Group {
	out := make([]models.Group, len(groups))
	for i, g := range groups {
		c := g
		c.Standings = cloneTable(g.Standings)
		c.FixtureIDs = append([]string(nil), g.FixtureIDs...)
		c.Qualification = append([]models.QualificationRule(nil), g.Qualification...)
		out[i] = c
	}
	return out
}

// AddGroup appends a new group with a freshly initialized table.
func AddGroup(groups []models.Group, name string, teamIDs []string, rules []models.QualificationRule) ([]models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || NameKey(name) == "" {
		return nil, ErrGroupNameRequired
	}
	if _, exists := FindGroupByName(groups, name); exists {
		return nil, fmt.Errorf("%w: %s", ErrGroupExists, name)
	}
	for _, g := range groups {
		for _, id := range teamIDs {
			if _, ok := Lookup(g.Standings, id); ok {
				return nil, fmt.Errorf("%w: %s in %s", ErrTeamInAnotherGroup, id, g.Name)
			}
		}
	}

	table, err := Initialize(nil, teamIDs)
	if err != nil {
		return nil, err
	}
	if err := validateRules(rules, len(teamIDs)); err != nil {
		return nil, err
	}

	out := cloneGroups(groups)
	out = append(out, models.Group{
		Name:          name,
		Standings:     table,
		FixtureIDs:    []string{},
		Qualification: append([]models.QualificationRule(nil), rules...),
	})
	return out, nil
}

func validateRules(rules []models.QualificationRule, teams int) error {
	positions := make(map[int]bool, len(rules))
	for _, r := range rules {
		if r.Position < 1 || r.Position > teams {
			return fmt.Errorf("%w: position %d out of range", ErrInvalidQualification, r.Position)
		}
		if strings.TrimSpace(r.Destination) == "" {
			return fmt.Errorf("%w: position %d has no destination", ErrInvalidQualification, r.Position)
		}
		if positions[r.Position] {
			return fmt.Errorf("%w: position %d listed twice", ErrInvalidQualification, r.Position)
		}
		positions[r.Position] = true
	}
	return nil
}

// AssignGroupFixture registers fixtureID with the named group. A fixture can
// belong to one group only and both teams must be members of it.
func AssignGroupFixture(groups []models.Group, groupName, fixtureID, homeTeamID, awayTeamID string) ([]models.Group, error) {
	gi, ok := FindGroupByName(groups, groupName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
	}
	if _, taken := FindGroup(groups, fixtureID); taken {
		return nil, fmt.Errorf("%w: %s", ErrFixtureAlreadyGrouped, fixtureID)
	}
	if homeTeamID == awayTeamID {
		return nil, ErrSameTeam
	}
	_, homeOK := Lookup(groups[gi].Standings, homeTeamID)
	_, awayOK := Lookup(groups[gi].Standings, awayTeamID)
	if !homeOK || !awayOK {
		return nil, fmt.Errorf("%w: %s", ErrTeamsNotInGroup, groups[gi].Name)
	}

	out := cloneGroups(groups)
	out[gi].FixtureIDs = append(out[gi].FixtureIDs, fixtureID)
	return out, nil
}

// RemoveGroupFixture unregisters fixtureID from the named group. The table is
// left untouched: only unplayed fixtures may be removed.
func RemoveGroupFixture(groups []models.Group, groupName, fixtureID string) ([]models.Group, error) {
	gi, ok := FindGroupByName(groups, groupName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
	}
	pos := -1
	for i, id := range groups[gi].FixtureIDs {
		if id == fixtureID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotInGroup, groups[gi].Name)
	}

	out := cloneGroups(groups)
	ids := out[gi].FixtureIDs
	out[gi].FixtureIDs = append(ids[:pos], ids[pos+1:]...)
	return out, nil
}

// ApplyGroupResult applies the result to the group holding fixtureID and
// re-ranks that group only. found is false when no group holds the fixture.
func ApplyGroupResult(groups []models.Group, fixtureID, homeTeamID, awayTeamID string, result models.FixtureResult) (out []models.Group, groupName string, found bool, err error) {
	gi, ok := FindGroup(groups, fixtureID)
	if !ok {
		return groups, "", false, nil
	}
	table, err := ApplyResult(groups[gi].Standings, homeTeamID, awayTeamID, result)
	if err != nil {
		return nil, groups[gi].Name, true, err
	}
	out = cloneGroups(groups)
	out[gi].Standings = table
	return out, out[gi].Name, true, nil
}

type Qualifier struct {
	TeamID      string `json:"team_id"`
	Position    int    `json:"position"`
	Destination string `json:"destination"`
}

// Qualifiers maps the group's qualification rules onto its current table.
func Qualifiers(group models.Group) []Qualifier {
	out := make([]Qualifier, 0, len(group.Qualification))
	for _, rule := range group.Qualification {
		if rule.Position < 1 || rule.Position > len(group.Standings) {
			continue
		}
		out = append(out, Qualifier{
			TeamID:      group.Standings[rule.Position-1].TeamID,
			Position:    rule.Position,
			Destination: rule.Destination,
		})
	}
	return out
}
