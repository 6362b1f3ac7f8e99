package main

import "github.com/frahmantamala/revenue-management/cmd"

func main() {
	cmd.Execute()
}
