package main

import "github.com/moyu-x/sensitive-file/cmd"

func main() {
	cmd.Execute()
}
