package main

import "pacereader/internal/cli"

func main() {
	cli.Execute()
}
