package main

import "orderbook-alerts/internal/cli"

func main() {
	cli.Execute()
}
