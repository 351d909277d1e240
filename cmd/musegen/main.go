// Command musegen is the music generation service CLI: it runs the
// HTTP API daemon and offers one-shot generation and preset management.
package main

func main() {
	Execute()
}
