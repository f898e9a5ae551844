package main

import "github.com/Tiliavir/ttdash/cmd"

func main() {
	cmd.Execute()
}
