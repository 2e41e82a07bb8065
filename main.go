package main

import "corhyn.com/corhyn/cmd"

func main() {
	cmd.Execute()
}
