package main

import "docsign-client/internal/cli"

func main() {
	cli.Execute()
}
