// Command planworks analyzes project schedules from the command line.
package main

import "github.com/papapumpkin/planworks/cmd"

func main() {
	cmd.Execute()
}
