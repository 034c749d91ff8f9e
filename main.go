package main

import "github.com/GBeurier/nirs4all-webapp-sub006/cmd"

func main() {
	cmd.Execute()
}
