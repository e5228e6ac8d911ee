package scoring

import (
	"github.com/tensorplex-labs/topsis/internal/table"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// Params controls how results are ranked and written.
type Params struct {
	RankMethod topsis.RankMethod
	Precision  int // negative writes the shortest exact representation
	Columns    table.Columns
}

// Processed is a scored table together with the raw result it came from.
type Processed struct {
	Table  *table.Table   // input columns plus score and rank
	Result *topsis.Result
}
