package main

import "github.com/guesswho/guesswho-go/internal/cli"

func main() {
	cli.Execute()
}
