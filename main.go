package main

import "github.com/mpapenbr/racecontrol-service-go/cmd"

func main() {
	cmd.Execute()
}
