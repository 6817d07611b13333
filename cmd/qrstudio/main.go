package main

import "github.com/qrstudio/qrstudio/cmd/qrstudio/cmd"

func main() {
	cmd.Execute()
}
