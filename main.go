package main

import "botwatch/cmd"

func main() {
	cmd.Execute()
}
