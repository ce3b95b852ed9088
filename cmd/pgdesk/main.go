package main

import (
	"os"

	"github.com/pgdesk/pgdesk/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
