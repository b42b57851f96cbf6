package main

import "github.com/wakelab/pivwake/cmd"

func main() {
	cmd.Execute()
}
