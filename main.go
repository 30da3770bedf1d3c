package main

import "github.com/remvst/asset-catalog/cmd"

func main() {
	cmd.Execute()
}
