/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/gps-extractor/cmd"

func main() {
	cmd.Execute()
}
