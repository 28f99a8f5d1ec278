package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-passnet/internal/model"
	"github.com/pable/go-passnet/internal/parser"
)

const england = "England Women's"

func loadFixture(t *testing.T) []model.RawEvent {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "statsbomb_small.json"))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	events, err := parser.ParseStatsBomb(f)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return events
}

func TestParseStatsBomb(t *testing.T) {
	convey.Convey("Given the StatsBomb fixture", t, func() {
		events := loadFixture(t)

		convey.Convey("Then every event is read in order", func() {
			convey.So(events, convey.ShouldHaveLength, 10)
			convey.So(events[0].Type, convey.ShouldEqual, "Starting XI")
			convey.So(events[9].Index, convey.ShouldEqual, 10)
		})

		convey.Convey("Then pass fields are flattened", func() {
			p := events[2]
			convey.So(p.Type, convey.ShouldEqual, "Pass")
			convey.So(p.Player, convey.ShouldEqual, "Lucy Bronze")
			convey.So(p.Recipient, convey.ShouldEqual, "Steph Houghton")
			convey.So(p.Location, convey.ShouldResemble, &model.Point{X: 30, Y: 70})
			convey.So(p.EndLocation, convey.ShouldResemble, &model.Point{X: 25, Y: 50})
			convey.So(p.Outcome, convey.ShouldBeEmpty)
			convey.So(events[4].Outcome, convey.ShouldEqual, "Incomplete")
			convey.So(events[5].SubType, convey.ShouldEqual, "Throw-in")
		})

		convey.Convey("Then teams are listed in first-seen order", func() {
			convey.So(parser.Teams(events), convey.ShouldResemble, []string{england, "Sweden Women's"})
			convey.So(parser.Opponent(events, england), convey.ShouldEqual, "Sweden Women's")
		})
	})

	convey.Convey("Given input that is not a JSON array", t, func() {
		_, err := parser.ParseStatsBomb(strings.NewReader(`{"index": 1}`))

		convey.Convey("Then it fails as a malformed event log", func() {
			convey.So(errors.Is(err, parser.ErrMalformedEvent), convey.ShouldBeTrue)
		})
	})
}

func TestExtractPasses(t *testing.T) {
	convey.Convey("Given the StatsBomb fixture", t, func() {
		events := loadFixture(t)

		convey.Convey("When cutting at the first substitution", func() {
			passes, cutoff, err := parser.ExtractPasses(events, parser.Filter{Team: england, CutAtFirstSub: true})

			convey.So(err, convey.ShouldBeNil)
			convey.Convey("Then only successful open-play passes before the sub remain", func() {
				convey.So(cutoff, convey.ShouldEqual, 9)
				convey.So(passes, convey.ShouldHaveLength, 3)
				for _, p := range passes {
					convey.So(p.Index, convey.ShouldBeLessThan, 9)
				}
			})
		})

		convey.Convey("When not cutting", func() {
			passes, cutoff, err := parser.ExtractPasses(events, parser.Filter{Team: england})

			convey.So(err, convey.ShouldBeNil)
			convey.So(cutoff, convey.ShouldEqual, -1)
			convey.So(passes, convey.ShouldHaveLength, 4)
		})

		convey.Convey("When using surnames", func() {
			passes, _, err := parser.ExtractPasses(events, parser.Filter{Team: england, Surnames: true})

			convey.So(err, convey.ShouldBeNil)
			convey.So(passes[0].Passer, convey.ShouldEqual, "Bronze")
			convey.So(passes[0].Recipient, convey.ShouldEqual, "Houghton")
		})

		convey.Convey("When asking for a team that never appears", func() {
			_, _, err := parser.ExtractPasses(events, parser.Filter{Team: "Lyon"})

			convey.So(errors.Is(err, parser.ErrUnknownTeam), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a successful pass without an end location", t, func() {
		events := []model.RawEvent{{
			Index: 1, Type: "Pass", Team: england, Player: "Lucy Bronze", Recipient: "Steph Houghton",
			Location: &model.Point{X: 1, Y: 1},
		}}
		_, _, err := parser.ExtractPasses(events, parser.Filter{Team: england})

		convey.Convey("Then extraction fails fast", func() {
			convey.So(errors.Is(err, parser.ErrMalformedEvent), convey.ShouldBeTrue)
		})
	})
}

func TestSurname(t *testing.T) {
	convey.Convey("Surname keeps the last word", t, func() {
		convey.So(parser.Surname("Sara Caroline Seger"), convey.ShouldEqual, "Seger")
		convey.So(parser.Surname("Marta"), convey.ShouldEqual, "Marta")
		convey.So(parser.Surname(""), convey.ShouldEqual, "")
	})
}

const wyscoutEvents = `[
 {"eventName": "Pass", "subEventName": "Simple pass", "tags": [{"id": 1801}], "playerId": 10, "teamId": 1609,
  "matchId": 1, "matchPeriod": "1H", "eventSec": 2.5, "positions": [{"x": 50, "y": 50}, {"x": 25, "y": 75}]},
 {"eventName": "Pass", "subEventName": "High pass", "tags": [{"id": 1802}], "playerId": 11, "teamId": 1609,
  "matchId": 1, "matchPeriod": "1H", "eventSec": 4.0, "positions": [{"x": 25, "y": 75}, {"x": 80, "y": 20}]},
 {"eventName": "Duel", "subEventName": "Air duel", "tags": [], "playerId": 20, "teamId": 1631,
  "matchId": 1, "matchPeriod": "1H", "eventSec": 6.0, "positions": [{"x": 20, "y": 80}]},
 {"eventName": "Pass", "subEventName": "Throw in", "tags": [{"id": 1801}], "playerId": 11, "teamId": 1609,
  "matchId": 1, "matchPeriod": "2H", "eventSec": 60.0, "positions": [{"x": 40, "y": 100}, {"x": 45, "y": 90}]},
 {"eventName": "Pass", "subEventName": "Simple pass", "tags": [{"id": 1801}], "playerId": 10, "teamId": 1609,
  "matchId": 1, "matchPeriod": "2H", "eventSec": 65.0, "positions": [{"x": 45, "y": 90}, {"x": 60, "y": 60}]}
]`

const wyscoutPlayers = `[{"wyId": 10, "shortName": "K. De Bruyne"}, {"wyId": 11, "shortName": "D. Silva"}]`
const wyscoutTeams = `[{"wyId": 1609, "name": "Manchester City"}, {"wyId": 1631, "name": "Liverpool"}]`

func TestParseWyscout(t *testing.T) {
	convey.Convey("Given a Wyscout event log with players and teams", t, func() {
		events, err := parser.ParseWyscout(
			strings.NewReader(wyscoutEvents),
			strings.NewReader(wyscoutPlayers),
			strings.NewReader(wyscoutTeams),
		)
		convey.So(err, convey.ShouldBeNil)
		convey.So(events, convey.ShouldHaveLength, 5)

		convey.Convey("Then ids resolve to names", func() {
			convey.So(events[0].Player, convey.ShouldEqual, "K. De Bruyne")
			convey.So(events[0].Team, convey.ShouldEqual, "Manchester City")
		})

		convey.Convey("Then accurate passes take the next teammate as recipient", func() {
			convey.So(events[0].Recipient, convey.ShouldEqual, "D. Silva")
			convey.So(events[0].Outcome, convey.ShouldBeEmpty)
		})

		convey.Convey("Then inaccurate passes carry an outcome", func() {
			convey.So(events[1].Outcome, convey.ShouldEqual, "Inaccurate")
		})

		convey.Convey("Then coordinates are rescaled to the 120x80 pitch", func() {
			convey.So(*events[0].Location, convey.ShouldResemble, model.Point{X: 60, Y: 40})
			convey.So(*events[0].EndLocation, convey.ShouldResemble, model.Point{X: 30, Y: 60})
		})

		convey.Convey("Then throw-ins are normalized and second-half minutes offset", func() {
			convey.So(events[3].SubType, convey.ShouldEqual, "Throw-in")
			convey.So(events[3].Period, convey.ShouldEqual, 2)
			convey.So(events[3].Minute, convey.ShouldEqual, 46)
		})

		convey.Convey("Then a pass with no following teammate is unresolved", func() {
			convey.So(events[4].Recipient, convey.ShouldBeEmpty)
			convey.So(events[4].Outcome, convey.ShouldNotBeEmpty)
		})

		convey.Convey("When extracting Manchester City passes", func() {
			passes, _, err := parser.ExtractPasses(events, parser.Filter{Team: "Manchester City"})

			convey.So(err, convey.ShouldBeNil)
			convey.So(passes, convey.ShouldHaveLength, 1)
			convey.So(passes[0].Passer, convey.ShouldEqual, "K. De Bruyne")
			convey.So(passes[0].Recipient, convey.ShouldEqual, "D. Silva")
		})
	})

	convey.Convey("Given a Wyscout event log without lookup files", t, func() {
		events, err := parser.ParseWyscout(strings.NewReader(wyscoutEvents), nil, nil)

		convey.So(err, convey.ShouldBeNil)
		convey.So(events[0].Player, convey.ShouldEqual, "10")
		convey.So(events[0].Team, convey.ShouldEqual, "1609")
	})
}

func TestLoad(t *testing.T) {
	convey.Convey("Given the fixture on disk", t, func() {
		events, hash, err := parser.Load(parser.Sources{
			Format:     model.FormatStatsBomb,
			EventsPath: filepath.Join("testdata", "statsbomb_small.json"),
		})

		convey.So(err, convey.ShouldBeNil)
		convey.So(events, convey.ShouldHaveLength, 10)
		convey.So(hash, convey.ShouldHaveLength, 64)

		again, err := parser.HashFile(filepath.Join("testdata", "statsbomb_small.json"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(again, convey.ShouldEqual, hash)
	})

	convey.Convey("Given an unknown format", t, func() {
		_, _, err := parser.Load(parser.Sources{
			Format:     "opta",
			EventsPath: filepath.Join("testdata", "statsbomb_small.json"),
		})

		convey.So(errors.Is(err, parser.ErrUnknownFormat), convey.ShouldBeTrue)
	})
}
