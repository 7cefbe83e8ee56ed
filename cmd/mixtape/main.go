package main

import "github.com/tessro/mixtape/internal/cli"

func main() {
	cli.Execute()
}
