package main

import "github.com/lexicon-lang/lexicon/cmd"

func main() {
	cmd.Execute()
}
