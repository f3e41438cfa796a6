package main

import "foodgraph/kg/cmd"

func main() {
	cmd.Execute()
}
