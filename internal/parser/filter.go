package parser

import (
	"fmt"
	"strings"

	"github.com/pable/go-passnet/internal/model"
)

const (
	typePass         = "Pass"
	typeSubstitution = "Substitution"
	subTypeThrowIn   = "Throw-in"
)

// Filter selects the passes that make up one team's network.
type Filter struct {
	Team string
	// CutAtFirstSub keeps only passes before the team's first substitution.
	CutAtFirstSub bool
	// Surnames identifies players by the last word of their name.
	Surnames bool
}

// ExtractPasses returns the team's successful non-throw-in passes in event
// order, plus the event index used as cutoff (-1 when none applied).
func ExtractPasses(events []model.RawEvent, f Filter) ([]model.PassEvent, int, error) {
	known := false
	for _, t := range Teams(events) {
		if t == f.Team {
			known = true
			break
		}
	}
	if !known {
		return nil, -1, fmt.Errorf("%q: %w", f.Team, ErrUnknownTeam)
	}

	cutoff := -1
	if f.CutAtFirstSub {
		cutoff = FirstSubstitution(events, f.Team)
	}

	var out []model.PassEvent
	for _, ev := range events {
		if ev.Type != typePass || ev.Team != f.Team {
			continue
		}
		if cutoff >= 0 && ev.Index >= cutoff {
			continue
		}
		if ev.Outcome != "" || ev.SubType == subTypeThrowIn {
			continue
		}
		if ev.Location == nil || ev.EndLocation == nil {
			return nil, -1, fmt.Errorf("pass at index %d has no location: %w", ev.Index, ErrMalformedEvent)
		}
		if ev.Player == "" || ev.Recipient == "" {
			return nil, -1, fmt.Errorf("pass at index %d has no passer or recipient: %w", ev.Index, ErrMalformedEvent)
		}
		passer, recipient := ev.Player, ev.Recipient
		if f.Surnames {
			passer, recipient = Surname(passer), Surname(recipient)
		}
		out = append(out, model.PassEvent{
			Index:       ev.Index,
			Minute:      ev.Minute,
			Passer:      passer,
			Recipient:   recipient,
			Origin:      *ev.Location,
			Destination: *ev.EndLocation,
		})
	}
	return out, cutoff, nil
}

// FirstSubstitution returns the index of the team's first substitution, or -1.
func FirstSubstitution(events []model.RawEvent, team string) int {
	for _, ev := range events {
		if ev.Type == typeSubstitution && ev.Team == team {
			return ev.Index
		}
	}
	return -1
}

// Surname returns the last whitespace-separated word of name.
func Surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}
