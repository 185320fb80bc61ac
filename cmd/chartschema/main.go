// Package main is the entry point for chartschema.
package main

func main() {
	Execute()
}
