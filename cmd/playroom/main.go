package main

import (
	"fmt"
	"os"
)

func main() {
	c := &cli{}
	err := newRootCommand(c).Execute()
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "playroom failed: %v\n", err)
		os.Exit(1)
	}
}
