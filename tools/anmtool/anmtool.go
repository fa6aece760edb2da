package main

import (
	"github.com/mogaika/anm_browser/tools/anmtool/cmd"
)

func main() {
	cmd.Execute()
}
