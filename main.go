package main

import (
	"github.com/manngobeh2006/oneclick-master/cmd"
)

func main() {
	cmd.Execute()
}
