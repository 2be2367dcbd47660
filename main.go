package main

import "github.com/utakatalp/season-simulator/cmd"

func main() {
	cmd.Execute()
}
