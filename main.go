package main

import "github.com/jake-scott/came-domo/cmd"

func main() {
	cmd.Execute()
}
