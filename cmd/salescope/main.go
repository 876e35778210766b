package main

import (
	"github.com/matthieukhl/salescope/internal/cmd"
)

func main() {
	cmd.Execute()
}
