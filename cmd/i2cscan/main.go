//go:build !tinygo

package main

import "boardscan-go/cmd/i2cscan/cmd"

func main() {
	cmd.Execute()
}
