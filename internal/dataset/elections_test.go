package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/lwerth/INFO510-public/internal/domain"
)

const sampleReturns = "# test returns\n" +
	"\n" +
	"AL 002   1    94720    53280\n" +
	"MN 002  -1    77592    81408\n" +
	"KY 003   0    68166    57834\n"

func TestReadElections(t *testing.T) {
	returns, err := ReadElections(strings.NewReader(sampleReturns))
	if err != nil {
		t.Fatalf("ReadElections: %v", err)
	}

	if len(returns) != 3 {
		t.Fatalf("expected 3 returns, got %d", len(returns))
	}

	first := returns[0]
	if first.State != "AL" || first.District != 2 {
		t.Errorf("expected AL 2, got %s %d", first.State, first.District)
	}
	if first.Incumbency != 1 {
		t.Errorf("expected incumbency 1, got %d", first.Incumbency)
	}
	if first.DemVotes != 94720 || first.RepVotes != 53280 {
		t.Errorf("expected votes 94720/53280, got %d/%d", first.DemVotes, first.RepVotes)
	}

	if returns[1].Incumbency != -1 {
		t.Errorf("expected incumbency -1, got %d", returns[1].Incumbency)
	}
	if returns[2].Incumbency != 0 {
		t.Errorf("expected incumbency 0, got %d", returns[2].Incumbency)
	}
}

func TestReadElections_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short row", "AL 002   1    94720\n"},
		{"bad district", "AL 0x2   1    94720    53280\n"},
		{"bad incumbency", "AL 002   9    94720    53280\n"},
		{"bad vote count", "AL 002   1    9472x    53280\n"},
		{"duplicate district", "AL 002   1    94720    53280\nAL 002   0    10000    20000\n"},
		{"empty file", "# only a comment\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadElections(strings.NewReader(tt.content)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestLoadElectionYear(t *testing.T) {
	returns, err := LoadElectionYear(1986)
	if err != nil {
		t.Fatalf("LoadElectionYear 1986: %v", err)
	}
	if len(returns) != 36 {
		t.Errorf("1986: expected 36 districts, got %d", len(returns))
	}

	returns, err = LoadElectionYear(1988)
	if err != nil {
		t.Fatalf("LoadElectionYear 1988: %v", err)
	}
	if len(returns) != 36 {
		t.Errorf("1988: expected 36 districts, got %d", len(returns))
	}

	if _, err := LoadElectionYear(2000); err == nil {
		t.Error("expected error for a year with no embedded returns")
	}
}

func TestPairYears_EmbeddedData(t *testing.T) {
	prev, err := LoadElectionYear(1986)
	if err != nil {
		t.Fatalf("LoadElectionYear 1986: %v", err)
	}
	cur, err := LoadElectionYear(1988)
	if err != nil {
		t.Fatalf("LoadElectionYear 1988: %v", err)
	}

	res := PairYears(prev, cur)

	if len(res.Pairs) != 33 {
		t.Errorf("expected 33 contested pairs, got %d", len(res.Pairs))
	}
	// CA 19 is unopposed in 1988, GA 9 is outside the contested band.
	if res.Uncontested != 2 {
		t.Errorf("expected 2 uncontested drops, got %d", res.Uncontested)
	}
	// MT 1 appears only in 1986, NV 2 only in 1988.
	if res.Unmatched != 2 {
		t.Errorf("expected 2 unmatched districts, got %d", res.Unmatched)
	}

	found := false
	var p domain.DistrictPair
	for _, pair := range res.Pairs {
		if pair.State == "AL" && pair.District == 2 {
			found, p = true, pair
			break
		}
	}
	if !found {
		t.Fatal("AL 2 missing from pairs")
	}
	if math.Abs(p.PrevShare-0.640) > 1e-9 {
		t.Errorf("AL 2 previous share: expected 0.640, got %.6f", p.PrevShare)
	}
	if math.Abs(p.Share-0.741) > 1e-9 {
		t.Errorf("AL 2 share: expected 0.741, got %.6f", p.Share)
	}
	if p.Incumbency != 1 {
		t.Errorf("AL 2 incumbency: expected 1, got %d", p.Incumbency)
	}
}

func TestPairYears_ContestedFilter(t *testing.T) {
	prev, err := ReadElections(strings.NewReader(
		"CA 019   1   103014    73986\n" +
			"AL 002   1    94720    53280\n"))
	if err != nil {
		t.Fatalf("ReadElections prev: %v", err)
	}
	cur, err := ReadElections(strings.NewReader(
		"CA 019   1   104883        0\n" +
			"AL 002   1   112632    39368\n"))
	if err != nil {
		t.Fatalf("ReadElections cur: %v", err)
	}

	res := PairYears(prev, cur)
	if len(res.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(res.Pairs))
	}
	if res.Pairs[0].State != "AL" {
		t.Errorf("expected the unopposed district dropped, kept %s", res.Pairs[0].State)
	}
	if res.Uncontested != 1 {
		t.Errorf("expected 1 uncontested drop, got %d", res.Uncontested)
	}
}
