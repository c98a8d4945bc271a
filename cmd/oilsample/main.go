package main

import "github.com/oliveiraenergia/oilsample/internal/cli"

func main() {
	cli.Execute()
}
