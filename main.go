package main

import (
	"os"

	"github.com/mealmax/mealsmoke/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
