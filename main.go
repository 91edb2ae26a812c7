// Package main provides the gnanimal CLI application.
// gnanimal creates and uses PostgreSQL schemas of experimental animals.
package main

import "github.com/gnames/gnanimal/cmd"

func main() {
	cmd.Execute()
}
