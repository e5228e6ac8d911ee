package scoring

import (
	"github.com/tensorplex-labs/topsis/internal/table"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// DefaultPrecision is the number of decimals written for a score.
const DefaultPrecision = 6

func DefaultParams() Params {
	return Params{
		RankMethod: topsis.RankDense,
		Precision:  DefaultPrecision,
		Columns:    table.DefaultColumns,
	}
}
