package main

import "github.com/relloyd/housepipe/cmd"

func main() {
	cmd.Execute()
}
