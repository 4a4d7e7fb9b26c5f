package main

import "github.com/oshokin/atom-check-updates/cmd/atom-check-updates/cmd"

func main() {
	cmd.Execute()
}
