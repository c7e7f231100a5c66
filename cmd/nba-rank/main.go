package main

import "github.com/pfrederiksen/nba-rank/internal/cli"

func main() {
	cli.Execute()
}
