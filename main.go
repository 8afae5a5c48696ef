package main

import (
	"xhcart/cli"
)

func main() {
	cli.Start()
}
