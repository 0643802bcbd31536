package main

import "github.com/astralsight/abcc-cli/cmd"

func main() {
	cmd.Execute()
}
