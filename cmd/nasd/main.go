package main

import "github.com/drivenas/nasd/cmd/nasd/cmd"

func main() {
	cmd.Execute()
}
