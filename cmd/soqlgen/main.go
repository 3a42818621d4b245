// Command soqlgen turns natural-language questions into SOQL queries.
package main

import (
	"os"

	"github.com/roach88/soqlgen/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
