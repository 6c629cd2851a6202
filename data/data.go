// Package data embeds the course datasets so every analysis runs out of
// the box without any external files.
package data

import "embed"

//go:embed elections/*.asc bikes.csv basketball.csv
var FS embed.FS
