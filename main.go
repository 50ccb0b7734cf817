package main

import "github.com/IronwoodTC/quoteiq-webhook/cmd"

func main() {
	cmd.Execute()
}
