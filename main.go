package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bioseed/seedalign/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: seedalign")
	fmt.Fprint(os.Stderr, "\n", cmd.SeedAlignHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seedalign":
		cmd.RunSeedAlign(os.Args[2:])
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}
