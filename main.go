package main

import "github.com/poldracklab/tacc-software/cmd"

func main() {
	cmd.Execute()
}
