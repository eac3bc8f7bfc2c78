package main

import "github.com/timvw/leaneval/cmd"

func main() {
	cmd.Execute()
}
