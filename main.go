package main

import "daytiles/cmd"

func main() {
	cmd.Execute()
}
