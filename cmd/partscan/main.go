package main

import "partscan/internal/cli"

func main() {
	cli.Execute()
}
