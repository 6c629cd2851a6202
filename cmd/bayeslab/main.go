package main

import "github.com/lwerth/INFO510-public/internal/cli"

func main() {
	cli.Execute()
}
