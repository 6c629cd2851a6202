package dataset

import (
	"math"
	"strings"
	"testing"
)

func TestReadGames(t *testing.T) {
	content := "date,home,away,home_pts,away_pts\n" +
		"1987-11-06,Boston,Cleveland,106,93\n" +
		"1987-11-08,Philadelphia,Indiana,100,103\n"

	games, err := ReadGames(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadGames: %v", err)
	}

	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	g := games[0]
	if g.Home != "Boston" || g.Away != "Cleveland" {
		t.Errorf("expected Boston vs Cleveland, got %s vs %s", g.Home, g.Away)
	}
	if g.Margin() != 13 {
		t.Errorf("expected margin 13, got %d", g.Margin())
	}
	if g.Date.Year() != 1987 || g.Date.Month() != 11 || g.Date.Day() != 6 {
		t.Errorf("unexpected date %v", g.Date)
	}
}

func TestReadGames_Errors(t *testing.T) {
	header := "date,home,away,home_pts,away_pts\n"
	tests := []struct {
		name    string
		content string
	}{
		{"bad header", "when,home,away,hp,ap\n1987-11-06,A,B,100,90\n"},
		{"bad date", header + "Nov 6 1987,A,B,100,90\n"},
		{"zero score", header + "1987-11-06,A,B,0,90\n"},
		{"negative score", header + "1987-11-06,A,B,100,-5\n"},
		{"team hosts itself", header + "1987-11-06,Boston,Boston,100,90\n"},
		{"missing team", header + "1987-11-06,,B,100,90\n"},
		{"no rows", header},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGames(strings.NewReader(tt.content)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestLoadGames(t *testing.T) {
	games, err := LoadGames()
	if err != nil {
		t.Fatalf("LoadGames: %v", err)
	}

	if len(games) != 72 {
		t.Fatalf("expected 72 games, got %d", len(games))
	}

	margins := Margins(games)
	var sum float64
	for _, m := range margins {
		sum += m
	}
	mean := sum / float64(len(margins))
	if math.Abs(mean-3.0) > 1e-9 {
		t.Errorf("mean margin: expected 3.0, got %.6f", mean)
	}

	if wins := HomeWins(games); wins != 40 {
		t.Errorf("expected 40 home wins, got %d", wins)
	}

	for i, total := range Totals(games) {
		if total < 150 || total > 280 {
			t.Errorf("game %d: implausible total %f", i, total)
		}
	}
}
