// ./main.go
package main

import (
	"github.com/mwielandt/autoform-cli/cmd"
)

func main() {
	cmd.Execute()
}
