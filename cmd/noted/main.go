package main

import "github.com/zeronotes/sharenote/internal/cli"

func main() {
	cli.Execute()
}
