package main

import "github.com/cloudeye-scanner/cloudeye/cmd"

func main() {
	cmd.Execute()
}
