package main

import "gridstack/internal/cli"

func main() {
	cli.Execute()
}
