package domain

// StreetCount is one street's hour of vehicle counting from the
// bicycle traffic survey.
type StreetCount struct {
	Street    string
	BikeRoute bool
	Bicycles  int64
	Others    int64
}

// Total is the number of vehicles observed on the street.
func (s StreetCount) Total() int64 {
	return s.Bicycles + s.Others
}

// Proportion is the observed fraction of vehicles that were bicycles.
// Returns 0 when nothing was observed.
func (s StreetCount) Proportion() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Bicycles) / float64(total)
}
