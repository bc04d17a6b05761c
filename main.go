package main

import "github.com/notargets/dgacoustics/cmd"

func main() {
	cmd.Execute()
}
