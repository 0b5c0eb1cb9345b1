package main

import "github.com/jrsteele09/arcash/cmd/arcash/cli"

func main() {
	cli.InitAndExecute()
}
