package main

import "supportbot/internal/cli"

func main() {
	cli.Execute()
}
