package main

import "github.com/OpenTraceLab/schwire/cmd/schwire/cmd"

func main() {
	cmd.Execute()
}
