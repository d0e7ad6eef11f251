package main

import "github.com/KinoBytes/filmtally-cli/cmd"

func main() {
	cmd.Execute()
}
