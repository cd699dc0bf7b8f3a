package main

import "quotehub/cmd/cli/command"

func main() {
	command.Execute()
}
