package main

import "github.com/user/pathfind/internal/cli"

func main() {
	cli.Execute()
}
