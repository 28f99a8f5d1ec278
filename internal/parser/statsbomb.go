package parser

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/pable/go-passnet/internal/model"
)

// ParseStatsBomb reads a StatsBomb open-data event array (events/<match>.json).
func ParseStatsBomb(r io.Reader) ([]model.RawEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read statsbomb events: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("statsbomb events are not valid JSON: %w", ErrMalformedEvent)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("statsbomb events must be a JSON array: %w", ErrMalformedEvent)
	}

	var out []model.RawEvent
	for _, ev := range root.Array() {
		raw := model.RawEvent{
			Index:   int(ev.Get("index").Int()),
			Period:  int(ev.Get("period").Int()),
			Minute:  int(ev.Get("minute").Int()),
			Type:    ev.Get("type.name").String(),
			Team:    ev.Get("team.name").String(),
			Player:  ev.Get("player.name").String(),
			MatchID: ev.Get("match_id").String(),
		}
		if loc, ok := point(ev.Get("location")); ok {
			raw.Location = &loc
		}
		if p := ev.Get("pass"); p.Exists() {
			raw.Recipient = p.Get("recipient.name").String()
			raw.Outcome = p.Get("outcome.name").String()
			raw.SubType = p.Get("type.name").String()
			if end, ok := point(p.Get("end_location")); ok {
				raw.EndLocation = &end
			}
		}
		out = append(out, raw)
	}
	return out, nil
}

// point reads a [x, y] (or [x, y, z]) location array.
func point(v gjson.Result) (model.Point, bool) {
	if !v.IsArray() {
		return model.Point{}, false
	}
	xy := v.Array()
	if len(xy) < 2 {
		return model.Point{}, false
	}
	return model.Point{X: xy[0].Float(), Y: xy[1].Float()}, true
}
