package main

import (
	// Import the cmd directory with root.go
	"github.com/owui-tools/chatbak/cmd"
)

func main() {
	// Call the root command
	cmd.Execute()
}
