package main

import "github.com/mjharte/stagehand/cmd/stagehand/cmd"

func main() {
	cmd.Execute()
}
