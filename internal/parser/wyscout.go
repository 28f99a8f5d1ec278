package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pable/go-passnet/internal/model"
)

// Wyscout tag ids and labels used by the pass filter.
const (
	wyscoutTagAccurate = 1801
	wyscoutThrowIn     = "Throw in"
	wyscoutPeriodTwo   = "2H"

	// unresolvedOutcome marks accurate passes whose recipient cannot be
	// inferred, so the successful-pass filter drops them.
	unresolvedOutcome = "Unresolved recipient"
)

// ParseWyscout reads a Wyscout event array. players and teams are the
// optional players.json and teams.json files; without them identifiers fall
// back to the numeric ids.
//
// Wyscout does not record pass recipients. The recipient of a pass is the
// player of the next event in the same match and period when that event
// belongs to the passer's team. Coordinates are rescaled from percentages to
// the 120×80 pitch.
func ParseWyscout(events, players, teams io.Reader) ([]model.RawEvent, error) {
	playerNames, err := wyscoutNames(players, "shortName")
	if err != nil {
		return nil, fmt.Errorf("players: %w", err)
	}
	teamNames, err := wyscoutNames(teams, "name")
	if err != nil {
		return nil, fmt.Errorf("teams: %w", err)
	}

	data, err := io.ReadAll(events)
	if err != nil {
		return nil, fmt.Errorf("read wyscout events: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("wyscout events are not valid JSON: %w", ErrMalformedEvent)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("wyscout events must be a JSON array: %w", ErrMalformedEvent)
	}

	items := root.Array()
	out := make([]model.RawEvent, 0, len(items))
	for i, ev := range items {
		period := 1
		minute := int(ev.Get("eventSec").Float() / 60)
		if ev.Get("matchPeriod").String() == wyscoutPeriodTwo {
			period = 2
			minute += 45
		}
		subType := ev.Get("subEventName").String()
		if subType == wyscoutThrowIn {
			subType = "Throw-in"
		}
		raw := model.RawEvent{
			Index:   i + 1,
			Period:  period,
			Minute:  minute,
			MatchID: ev.Get("matchId").String(),
			Type:    ev.Get("eventName").String(),
			SubType: subType,
			Team:    lookup(teamNames, ev.Get("teamId").String()),
			Player:  lookup(playerNames, ev.Get("playerId").String()),
		}
		positions := ev.Get("positions").Array()
		if len(positions) > 0 {
			p := wyscoutPoint(positions[0])
			raw.Location = &p
		}
		if len(positions) > 1 {
			p := wyscoutPoint(positions[1])
			raw.EndLocation = &p
		}
		if raw.Type == "Pass" && !hasTag(ev, wyscoutTagAccurate) {
			raw.Outcome = "Inaccurate"
		}
		out = append(out, raw)
	}

	for i := range out {
		if out[i].Type != "Pass" || out[i].Outcome != "" {
			continue
		}
		out[i].Recipient = nextTeammate(out, i)
		if out[i].Recipient == "" {
			out[i].Outcome = unresolvedOutcome
		}
	}
	return out, nil
}

// nextTeammate returns the player of the event after i when it continues the
// same team's possession in the same match and period.
func nextTeammate(events []model.RawEvent, i int) string {
	if i+1 >= len(events) {
		return ""
	}
	cur, next := events[i], events[i+1]
	if next.MatchID != cur.MatchID || next.Period != cur.Period || next.Team != cur.Team {
		return ""
	}
	if next.Player == cur.Player {
		return ""
	}
	return next.Player
}

func wyscoutNames(r io.Reader, field string) (map[string]string, error) {
	names := make(map[string]string)
	if r == nil {
		return names, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("not valid JSON: %w", ErrMalformedEvent)
	}
	gjson.ParseBytes(data).ForEach(func(_, v gjson.Result) bool {
		names[v.Get("wyId").String()] = strings.TrimSpace(v.Get(field).String())
		return true
	})
	return names, nil
}

func lookup(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func hasTag(ev gjson.Result, id int64) bool {
	for _, t := range ev.Get("tags.#.id").Array() {
		if t.Int() == id {
			return true
		}
	}
	return false
}

func wyscoutPoint(v gjson.Result) model.Point {
	return model.Point{
		X: v.Get("x").Float() / 100 * model.PitchLength,
		Y: v.Get("y").Float() / 100 * model.PitchWidth,
	}
}
