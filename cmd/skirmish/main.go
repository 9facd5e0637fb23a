package main

import "github.com/andrescamacho/skirmish-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
