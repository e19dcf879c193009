package main

import "github.com/Rorical/RoriBoard/cmd"

func main() {
	cmd.Execute()
}
