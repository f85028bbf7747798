// Package main provides the waymark CLI.
package main

import "github.com/petar-djukic/waymark/internal/cli"

func main() {
	cli.Execute()
}
