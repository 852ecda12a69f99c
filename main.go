package main

import "github.com/rickcrawford/wpmarkdown/cmd"

func main() {
	cmd.Execute()
}
