package main

import "library-backend/cmd/libctl/command"

func main() {
	command.Execute()
}
