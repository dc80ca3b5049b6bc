// Command fatalii runs the engine as a UCI server on stdin/stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FitzOReilly/fatalii/uci"
)

func main() {
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", uci.Name, uci.Version)
		return
	}

	srv := uci.New(os.Stdin, os.Stdout)
	if err := srv.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
