package main

import "github.com/andrescamacho/searoutes-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
