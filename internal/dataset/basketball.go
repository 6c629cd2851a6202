package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/lwerth/INFO510-public/data"
	"github.com/lwerth/INFO510-public/internal/domain"
)

// ReadGames parses the season CSV with header
// date,home,away,home_pts,away_pts.
func ReadGames(r io.Reader) ([]domain.Game, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header[0] != "date" || header[1] != "home" || header[2] != "away" || header[3] != "home_pts" || header[4] != "away_pts" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var games []domain.Game
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var g domain.Game
		g.Date, err = time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date %q", line, record[0])
		}

		g.Home, g.Away = record[1], record[2]
		if g.Home == "" || g.Away == "" {
			return nil, fmt.Errorf("line %d: missing team name", line)
		}
		if g.Home == g.Away {
			return nil, fmt.Errorf("line %d: %s cannot host itself", line, g.Home)
		}

		g.HomePts, err = strconv.ParseInt(record[3], 10, 64)
		if err != nil || g.HomePts <= 0 {
			return nil, fmt.Errorf("line %d: bad home score %q", line, record[3])
		}
		g.AwayPts, err = strconv.ParseInt(record[4], 10, 64)
		if err != nil || g.AwayPts <= 0 {
			return nil, fmt.Errorf("line %d: bad away score %q", line, record[4])
		}

		games = append(games, g)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("no games found")
	}
	return games, nil
}

// LoadGames reads the embedded season.
func LoadGames() ([]domain.Game, error) {
	f, err := data.FS.Open("basketball.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGames(f)
}

// ReadGamesFile reads a season from a file on disk.
func ReadGamesFile(path string) ([]domain.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGames(f)
}

// Margins extracts home margins as floats for the normal model.
func Margins(games []domain.Game) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = float64(g.Margin())
	}
	return out
}

// Totals extracts combined scores as floats for the normal model.
func Totals(games []domain.Game) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = float64(g.Total())
	}
	return out
}

// HomeWins counts games the home team won.
func HomeWins(games []domain.Game) int {
	n := 0
	for _, g := range games {
		if g.HomeWin() {
			n++
		}
	}
	return n
}
