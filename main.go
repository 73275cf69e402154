package main

import "github.com/theirongolddev/fincmd/cmd"

func main() {
	cmd.Execute()
}
