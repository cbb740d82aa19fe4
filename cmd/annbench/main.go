// Command annbench benchmarks nearest-neighbor indexes with all-kNN runs.
package main

import "github.com/viant/annbench/internal/cli"

func main() {
	cli.Execute()
}
