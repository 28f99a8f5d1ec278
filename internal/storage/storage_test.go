package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/pable/go-passnet/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMatch(hash, team string, importedAt time.Time) model.Match {
	return model.Match{
		ID:          MatchID(MatchKey{SourceHash: hash, Format: model.FormatStatsBomb, Team: team, CutAtSub: true}),
		SourceHash:  hash,
		Format:      model.FormatStatsBomb,
		MatchID:     "69301",
		Team:        team,
		Opponent:    "Sweden Women's",
		Label:       "69301.json",
		CutoffIndex: 2030,
		ImportedAt:  importedAt,
	}
}

func testPasses() []model.PassEvent {
	return []model.PassEvent{
		{Index: 10, Minute: 1, Passer: "Bronze", Recipient: "Houghton", Origin: model.Point{X: 30, Y: 70}, Destination: model.Point{X: 25, Y: 50}},
		{Index: 12, Minute: 1, Passer: "Houghton", Recipient: "Bronze", Origin: model.Point{X: 25, Y: 50}, Destination: model.Point{X: 40, Y: 72.5}},
		{Index: 40, Minute: 3, Passer: "Bronze", Recipient: "Walsh", Origin: model.Point{X: 41, Y: 71}, Destination: model.Point{X: 50, Y: 45}},
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)
	m := testMatch("abc123", "England Women's", time.Now())

	if err := db.InsertMatch(m, testPasses()); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists(m.ID)
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestGetPassesRoundTrip(t *testing.T) {
	db := openMemDB(t)
	m := testMatch("abc123", "England Women's", time.Now())
	want := testPasses()
	if err := db.InsertMatch(m, want); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	got, err := db.GetPasses(m.ID)
	if err != nil {
		t.Fatalf("GetPasses: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d passes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pass %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

// Re-importing the same id replaces the stored passes instead of appending.
func TestInsertMatchReplaces(t *testing.T) {
	db := openMemDB(t)
	m := testMatch("abc123", "England Women's", time.Now())
	if err := db.InsertMatch(m, testPasses()); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	if err := db.InsertMatch(m, testPasses()[:1]); err != nil {
		t.Fatalf("InsertMatch again: %v", err)
	}

	got, err := db.GetPasses(m.ID)
	if err != nil {
		t.Fatalf("GetPasses: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 pass after replace, got %d", len(got))
	}
	stored, _ := db.GetMatchByPrefix(m.ID)
	if stored == nil || stored.PassCount != 1 {
		t.Errorf("expected stored pass count 1, got %+v", stored)
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	older := testMatch("h1", "England Women's", base)
	newer := testMatch("h2", "Sweden Women's", base.Add(time.Hour))
	for _, m := range []model.Match{older, newer} {
		if err := db.InsertMatch(m, testPasses()); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	if list[0].ID != newer.ID {
		t.Errorf("expected newest import first, got %s", list[0].Team)
	}
	if !list[1].ImportedAt.Equal(base) {
		t.Errorf("imported_at round trip: got %v, want %v", list[1].ImportedAt, base)
	}
	if list[0].Format != model.FormatStatsBomb || list[0].CutoffIndex != 2030 {
		t.Errorf("unexpected fields %+v", list[0])
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)
	m := testMatch("deadbeef", "England Women's", time.Now())
	db.InsertMatch(m, testPasses())

	s, err := db.GetMatchByPrefix(m.ID[:6])
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if s == nil {
		t.Fatal("expected match for prefix")
	}
	if s.ID != m.ID || s.PassCount != 3 {
		t.Errorf("unexpected match %+v", s)
	}

	if s, _ := db.GetMatchByPrefix(strings.ToUpper(m.ID[:6])); s == nil || s.ID != m.ID {
		t.Errorf("expected an upper-case prefix to find %s, got %+v", m.ID, s)
	}

	// LIKE wildcards are plain characters in a prefix.
	for _, prefix := range []string{"zzzz", "%", "_", "__%", m.ID[:2] + "%"} {
		none, err := db.GetMatchByPrefix(prefix)
		if err != nil {
			t.Fatalf("GetMatchByPrefix(%q): %v", prefix, err)
		}
		if none != nil {
			t.Errorf("expected nil for prefix %q, got %s", prefix, none.ID)
		}
	}
}

func TestDeleteMatch(t *testing.T) {
	db := openMemDB(t)
	m := testMatch("abc123", "England Women's", time.Now())
	db.InsertMatch(m, testPasses())

	deleted, err := db.DeleteMatch(m.ID)
	if err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if !deleted {
		t.Error("expected a row to be deleted")
	}
	passes, _ := db.GetPasses(m.ID)
	if len(passes) != 0 {
		t.Errorf("expected passes to be gone, got %d", len(passes))
	}

	again, _ := db.DeleteMatch(m.ID)
	if again {
		t.Error("second delete should report nothing deleted")
	}
}

// MatchID changes with every option that changes the stored passes or names.
func TestMatchIDDistinct(t *testing.T) {
	base := MatchKey{SourceHash: "h", Format: model.FormatWyscout, Team: "England", CutAtSub: true, PlayersHash: "p1", TeamsHash: "t1"}
	variants := map[string]func(k *MatchKey){
		"team":     func(k *MatchKey) { k.Team = "Sweden" },
		"cutoff":   func(k *MatchKey) { k.CutAtSub = false },
		"surnames": func(k *MatchKey) { k.Surnames = true },
		"format":   func(k *MatchKey) { k.Format = model.FormatStatsBomb },
		"players":  func(k *MatchKey) { k.PlayersHash = "p2" },
		"teams":    func(k *MatchKey) { k.TeamsHash = "" },
		"source":   func(k *MatchKey) { k.SourceHash = "h2" },
	}

	id := MatchID(base)
	if id != MatchID(base) {
		t.Fatal("MatchID is not deterministic")
	}
	seen := map[string]string{id: "base"}
	for name, change := range variants {
		k := base
		change(&k)
		got := MatchID(k)
		if prev, dup := seen[got]; dup {
			t.Errorf("%s: id collides with %s", name, prev)
		}
		seen[got] = name
	}
}

func TestOverviewAndQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(testMatch("h1", "England Women's", time.Now()), testPasses())
	db.InsertMatch(testMatch("h2", "England Women's", time.Now()), testPasses()[:2])

	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.TotalMatches != 2 || ov.TotalPasses != 5 || ov.UniqueTeams != 1 || ov.Players != 3 {
		t.Errorf("unexpected overview %+v", ov)
	}

	teams, err := db.GetTeamPassCounts()
	if err != nil {
		t.Fatalf("GetTeamPassCounts: %v", err)
	}
	if len(teams) != 1 || teams[0].Matches != 2 || teams[0].Passes != 5 {
		t.Errorf("unexpected team counts %+v", teams)
	}

	cols, rows, err := db.QueryRaw("SELECT passer, COUNT(1) AS n FROM passes GROUP BY passer ORDER BY n DESC, passer")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[1] != "n" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 2 || rows[0][0] != "Bronze" || rows[0][1] != "3" {
		t.Errorf("unexpected rows %v", rows)
	}
}
