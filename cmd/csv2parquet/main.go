package main

import (
	"github.com/fraugster/csv2parquet/cmd/csv2parquet/cmds"
)

func main() {
	cmds.Execute()
}
