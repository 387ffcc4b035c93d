package main

import "github.com/mouse-blink/stubweave/cmd"

func main() {
	cmd.Execute()
}
