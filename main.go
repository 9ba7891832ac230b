package main

import "github.com/bz888/chiarella/cmd"

func main() {
	cmd.Execute()
}
