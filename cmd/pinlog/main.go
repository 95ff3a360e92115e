package main

import "github.com/AdityaBavadekar/PinLog/internal/cli"

func main() {
	cli.Execute()
}
