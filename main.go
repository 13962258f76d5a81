package main

import "archon/cmd"

func main() {
	cmd.Execute()
}
