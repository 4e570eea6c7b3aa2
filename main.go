package main

import "github.com/khanhnv2901/secdash/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
