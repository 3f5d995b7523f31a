package main

import "ros-specgen/internal/cli"

func main() {
	cli.Execute()
}
