package main

import (
	"github.com/AzielCF/watercooler-fc/cmd"
)

func main() {
	cmd.Execute()
}
