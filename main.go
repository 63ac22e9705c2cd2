package main

import "github.com/uartscope/uartscope/cmd"

func main() {
	cmd.Execute()
}
