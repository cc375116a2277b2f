package main

import "github.com/pdamkota/asetledger/internal/cli"

func main() {
	cli.Execute()
}
