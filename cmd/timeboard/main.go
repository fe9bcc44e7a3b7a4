// Command timeboard builds business calendars from YAML definitions and
// answers queries about their workshifts.
package main

import "github.com/mesh-intelligence/timeboard/internal/cli"

func main() {
	cli.Execute()
}
