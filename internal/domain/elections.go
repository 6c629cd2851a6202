package domain

// ElectionReturn is one congressional district's general election result.
type ElectionReturn struct {
	State      string
	District   int
	Incumbency int // 1 Democratic incumbent on the ballot, -1 Republican incumbent, 0 open seat
	DemVotes   int64
	RepVotes   int64
}

// TotalVotes is the two-party vote total.
func (r ElectionReturn) TotalVotes() int64 {
	return r.DemVotes + r.RepVotes
}

// DemShare is the Democratic share of the two-party vote.
// Returns 0 when no votes were cast.
func (r ElectionReturn) DemShare() float64 {
	total := r.TotalVotes()
	if total == 0 {
		return 0
	}
	return float64(r.DemVotes) / float64(total)
}

// Contested reports whether the district saw a real two-party race:
// both candidates received votes and the share is away from 0 and 1.
// Effectively unopposed districts carry no information about the
// incumbency effect on the vote division.
func (r ElectionReturn) Contested() bool {
	if r.DemVotes <= 0 || r.RepVotes <= 0 {
		return false
	}
	share := r.DemShare()
	return share > 0.1 && share < 0.9
}

// DistrictPair joins the same district across two consecutive elections.
// Incumbency is the code for the later election.
type DistrictPair struct {
	State      string
	District   int
	PrevShare  float64
	Share      float64
	Incumbency int
}
