package main

import "github.com/partstash/partstash/cmd"

func main() {
	cmd.Execute()
}
