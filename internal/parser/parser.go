// Package parser reads StatsBomb and Wyscout event logs and extracts the
// completed passes of one team.
package parser

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pable/go-passnet/internal/model"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrUnknownTeam    = errors.New("team not found in event log")
	ErrUnknownFormat  = errors.New("unknown event format")
)

// Sources names the files one import reads. PlayersPath and TeamsPath are
// only used for Wyscout, which identifies players and teams by id.
type Sources struct {
	Format      model.Format
	EventsPath  string
	PlayersPath string
	TeamsPath   string
}

// Load parses the event log described by src and returns its events together
// with the sha256 of the events file.
func Load(src Sources) ([]model.RawEvent, string, error) {
	hash, err := HashFile(src.EventsPath)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(src.EventsPath)
	if err != nil {
		return nil, "", fmt.Errorf("open events: %w", err)
	}
	defer f.Close()

	switch src.Format {
	case model.FormatStatsBomb, "":
		events, err := ParseStatsBomb(f)
		return events, hash, err
	case model.FormatWyscout:
		players, err := openOptional(src.PlayersPath)
		if err != nil {
			return nil, "", fmt.Errorf("open players: %w", err)
		}
		if players != nil {
			defer players.Close()
		}
		teams, err := openOptional(src.TeamsPath)
		if err != nil {
			return nil, "", fmt.Errorf("open teams: %w", err)
		}
		if teams != nil {
			defer teams.Close()
		}
		events, err := ParseWyscout(f, readerOrNil(players), readerOrNil(teams))
		return events, hash, err
	default:
		return nil, "", fmt.Errorf("%q: %w", src.Format, ErrUnknownFormat)
	}
}

// HashFile returns the hex sha256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Teams returns the distinct team names in events, in first-seen order.
func Teams(events []model.RawEvent) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range events {
		if ev.Team == "" || seen[ev.Team] {
			continue
		}
		seen[ev.Team] = true
		out = append(out, ev.Team)
	}
	return out
}

// Opponent returns the first team in events that is not team, or "".
func Opponent(events []model.RawEvent, team string) string {
	for _, t := range Teams(events) {
		if t != team {
			return t
		}
	}
	return ""
}

func openOptional(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.Open(path)
}

// readerOrNil avoids handing a typed nil *os.File to an io.Reader parameter.
func readerOrNil(f *os.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
