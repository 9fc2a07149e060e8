package main

import (
	"github.com/dtvem/node-plugin/src/cmd"

	// Import plugins to register them
	_ "github.com/dtvem/node-plugin/src/plugins/depman"
	_ "github.com/dtvem/node-plugin/src/plugins/node"
)

func main() {
	cmd.Execute()
}
