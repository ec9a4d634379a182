package main

import (
	"fmt"
	"os"

	"github.com/harishgm1236-debug/interview-text/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
