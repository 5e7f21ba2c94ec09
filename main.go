package main

import "fleetctl/cmd"

func main() {
	cmd.Execute()
}
