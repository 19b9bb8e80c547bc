package main

import "github.com/frahmantamala/household-finance/cmd"

func main() {
	cmd.Execute()
}
