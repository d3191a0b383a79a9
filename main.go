package main

import "github.com/shubhamjakhete/spotify-agent/cmd"

func main() {
	cmd.Execute()
}
