package main

import "github.com/OsinDmitrii/Big-data-in-agriculture/cmd"

func main() {
	cmd.Execute()
}
