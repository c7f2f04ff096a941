package main

import "fortress-arena/internal/cli"

func main() {
	cli.Execute()
}
