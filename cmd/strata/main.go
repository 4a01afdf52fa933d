package main

import "github.com/strata-bim/strata/internal/cli"

func main() {
	cli.Execute()
}
