package main

import "upgrade-guard/internal/cli"

func main() {
	cli.Execute()
}
