package main

import "github.com/rskv-p/minitrie/cmd"

func main() {
	cmd.Execute()
}
