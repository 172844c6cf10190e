package main

import "github.com/ananta-sj/ReFlow/internal/cli"

func main() {
	cli.Main()
}
