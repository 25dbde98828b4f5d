package main

import "itinerary-service/cmd/itinctl/cmd"

func main() {
	cmd.Execute()
}
