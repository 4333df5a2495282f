package main

import "github.com/oletk/sales-insights-etl/cmd"

func main() {
	cmd.Execute()
}
