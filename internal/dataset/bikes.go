package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lwerth/INFO510-public/data"
	"github.com/lwerth/INFO510-public/internal/domain"
)

// ReadStreets parses the bicycle survey CSV with header
// street,bike_route,bicycles,other_vehicles.
func ReadStreets(r io.Reader) ([]domain.StreetCount, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header[0] != "street" || header[1] != "bike_route" || header[2] != "bicycles" || header[3] != "other_vehicles" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var counts []domain.StreetCount
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var sc domain.StreetCount
		sc.Street = record[0]
		if sc.Street == "" {
			return nil, fmt.Errorf("line %d: missing street name", line)
		}

		switch record[1] {
		case "yes":
			sc.BikeRoute = true
		case "no":
			sc.BikeRoute = false
		default:
			return nil, fmt.Errorf("line %d: bike_route must be yes or no, got %q", line, record[1])
		}

		sc.Bicycles, err = strconv.ParseInt(record[2], 10, 64)
		if err != nil || sc.Bicycles < 0 {
			return nil, fmt.Errorf("line %d: bad bicycle count %q", line, record[2])
		}
		sc.Others, err = strconv.ParseInt(record[3], 10, 64)
		if err != nil || sc.Others < 0 {
			return nil, fmt.Errorf("line %d: bad vehicle count %q", line, record[3])
		}
		if sc.Total() == 0 {
			return nil, fmt.Errorf("line %d: street %s observed no vehicles", line, sc.Street)
		}

		counts = append(counts, sc)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no streets found")
	}
	return counts, nil
}

// LoadStreets reads the embedded bicycle survey.
func LoadStreets() ([]domain.StreetCount, error) {
	f, err := data.FS.Open("bikes.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStreets(f)
}

// ReadStreetsFile reads a bicycle survey from a file on disk.
func ReadStreetsFile(path string) ([]domain.StreetCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStreets(f)
}

// FilterRoute keeps only streets with, or without, a marked bike route.
func FilterRoute(counts []domain.StreetCount, bikeRoute bool) []domain.StreetCount {
	var out []domain.StreetCount
	for _, c := range counts {
		if c.BikeRoute == bikeRoute {
			out = append(out, c)
		}
	}
	return out
}
