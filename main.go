package main

import "github.com/theirongolddev/lookout/cmd"

func main() {
	cmd.Execute()
}
