// Package dataset reads the embedded course datasets and user supplied
// files in the same formats.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lwerth/INFO510-public/data"
	"github.com/lwerth/INFO510-public/internal/domain"
)

// ReadElections parses fixed-width election returns: state in columns
// 1-2, district in 4-6, incumbency in 8-10, Democratic votes in 12-19
// and Republican votes in 21-28. Blank lines and # comments are skipped.
func ReadElections(r io.Reader) ([]domain.ElectionReturn, error) {
	var returns []domain.ElectionReturn
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) < 28 {
			return nil, fmt.Errorf("line %d: row is %d columns, want at least 28", lineNo, len(line))
		}

		ret, err := parseReturn(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := fmt.Sprintf("%s-%03d", ret.State, ret.District)
		if seen[key] {
			return nil, fmt.Errorf("line %d: duplicate district %s %d", lineNo, ret.State, ret.District)
		}
		seen[key] = true
		returns = append(returns, ret)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("no districts found")
	}
	return returns, nil
}

func parseReturn(line string) (domain.ElectionReturn, error) {
	var ret domain.ElectionReturn

	ret.State = strings.TrimSpace(line[0:2])
	if ret.State == "" {
		return ret, fmt.Errorf("missing state code")
	}

	district, err := strconv.Atoi(strings.TrimSpace(line[3:6]))
	if err != nil || district <= 0 {
		return ret, fmt.Errorf("bad district %q", strings.TrimSpace(line[3:6]))
	}
	ret.District = district

	inc, err := strconv.Atoi(strings.TrimSpace(line[7:10]))
	if err != nil || inc < -1 || inc > 1 {
		return ret, fmt.Errorf("bad incumbency code %q", strings.TrimSpace(line[7:10]))
	}
	ret.Incumbency = inc

	dem, err := strconv.ParseInt(strings.TrimSpace(line[11:19]), 10, 64)
	if err != nil || dem < 0 {
		return ret, fmt.Errorf("bad Democratic vote count %q", strings.TrimSpace(line[11:19]))
	}
	ret.DemVotes = dem

	rep, err := strconv.ParseInt(strings.TrimSpace(line[20:28]), 10, 64)
	if err != nil || rep < 0 {
		return ret, fmt.Errorf("bad Republican vote count %q", strings.TrimSpace(line[20:28]))
	}
	ret.RepVotes = rep

	return ret, nil
}

// LoadElectionYear reads the embedded returns for a year.
func LoadElectionYear(year int) ([]domain.ElectionReturn, error) {
	f, err := data.FS.Open(fmt.Sprintf("elections/%d.asc", year))
	if err != nil {
		return nil, fmt.Errorf("no embedded returns for %d: %w", year, err)
	}
	defer f.Close()
	return ReadElections(f)
}

// ReadElectionsFile reads returns from a file on disk.
func ReadElectionsFile(path string) ([]domain.ElectionReturn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadElections(f)
}

// PairResult is the joined dataset for a two year incumbency analysis.
type PairResult struct {
	Pairs       []domain.DistrictPair
	Uncontested int // matched districts dropped by the contested filter
	Unmatched   int // districts present in only one of the two years
}

// PairYears joins districts across two elections on state and district.
// Only pairs contested in both years are kept; the incumbency code comes
// from the later year.
func PairYears(prev, cur []domain.ElectionReturn) PairResult {
	prevByKey := make(map[string]domain.ElectionReturn, len(prev))
	for _, p := range prev {
		prevByKey[fmt.Sprintf("%s-%03d", p.State, p.District)] = p
	}

	var res PairResult
	matched := make(map[string]bool)
	for _, c := range cur {
		key := fmt.Sprintf("%s-%03d", c.State, c.District)
		p, ok := prevByKey[key]
		if !ok {
			res.Unmatched++
			continue
		}
		matched[key] = true

		if !p.Contested() || !c.Contested() {
			res.Uncontested++
			continue
		}
		res.Pairs = append(res.Pairs, domain.DistrictPair{
			State:      c.State,
			District:   c.District,
			PrevShare:  p.DemShare(),
			Share:      c.DemShare(),
			Incumbency: c.Incumbency,
		})
	}
	res.Unmatched += len(prev) - len(matched)
	return res
}
