package main

import (
	"github.com/axellelanca/quickurl/cmd"
	_ "github.com/axellelanca/quickurl/cmd/cli"
	_ "github.com/axellelanca/quickurl/cmd/server"
)

func main() {
	cmd.Execute()
}
