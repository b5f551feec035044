package main

import (
	"fmt"
	"os"

	"officequery/internal/officequery"
)

func main() {
	if err := officequery.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
