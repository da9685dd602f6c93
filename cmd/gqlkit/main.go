package main

import "github.com/Station-Manager/gqlkit/cmd/gqlkit/cmd"

func main() {
	cmd.Execute()
}
