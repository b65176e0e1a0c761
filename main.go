package main

import "github.com/trackapp/laptelemetry-service-go/cmd"

func main() {
	cmd.Execute()
}
