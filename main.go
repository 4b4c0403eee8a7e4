package main

import "github.com/jcdickinson/rustnav/cmd"

func main() {
	cmd.Execute()
}
