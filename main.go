package main

import "github.com/nordicmaskin/kma/cmd"

func main() {
	cmd.Execute()
}
