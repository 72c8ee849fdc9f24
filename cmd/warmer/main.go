package main

import "route-warmer/cmd/warmer/cmd"

func main() {
	cmd.Execute()
}
