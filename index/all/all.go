// Package all registers every index backend. Import it for side effects:
//
//	import _ "github.com/viant/annbench/index/all"
package all

import (
	_ "github.com/viant/annbench/index/cover"
	_ "github.com/viant/annbench/index/flat"
	_ "github.com/viant/annbench/index/hnsw"
	_ "github.com/viant/annbench/index/vptree"
)
