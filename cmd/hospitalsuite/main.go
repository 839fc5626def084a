package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/phillip-england/hospitalsuite/internal/hospitalcli"
)

func main() {
	if err := hospitalcli.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, hospitalcli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr)
			hospitalcli.PrintUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
