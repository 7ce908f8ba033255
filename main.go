package main

import (
	"github.com/RyanBlaney/pattern-sonar/cmd"
)

func main() {
	cmd.Execute()
}
