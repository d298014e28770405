package main

import "github.com/nfrund/patterns/cmd/patterns-cli/cmd"

func main() {
	cmd.Execute()
}
