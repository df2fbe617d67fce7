package main

import (
	"gradewatch-backend/cmd/gradewatch-cli/cmd"
)

func main() {
	cmd.Execute()
}
