package main

import "tiksave-bot/cmd"

func main() {
	cmd.Execute()
}
