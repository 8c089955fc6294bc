// Package main provides the entry point for the extrasjson CLI application.
package main

import (
	"extrasjson/cmd/batch"
	"extrasjson/cmd/parse"
	"extrasjson/cmd/root"
	"extrasjson/cmd/tags"
)

func main() {
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(tags.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.Fatal(err)
	}
}
