package main

import "os"

// main is the entry point for the application
func main() {
	exitCode := MainEntry(os.Args)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
