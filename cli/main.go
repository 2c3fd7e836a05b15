package main

import (
	"log"
	"os"

	"github.com/Trinoooo/collatz_cert/certify/cli"
)

func main() {
	wrapper, err := cli.NewWrapper()
	if err != nil {
		log.Fatal(err)
	}

	if err = wrapper.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
