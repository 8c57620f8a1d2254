package main

import "github.com/inamate/inamate/canvas-go/cmd/scenectl/cmd"

func main() {
	cmd.Execute()
}
