package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/scamara129/broadband-usage/pkg/errors"
)

// SplitMissingTarget partitions the table into rows with a defined usage
// target (the working set) and rows without one (the to-predict set). Rows
// missing the target are held aside for final prediction and never enter
// training or testing; the target itself is never interpolated.
func SplitMissingTarget(t *Table) (working, toPredict *Table) {
	var has, missing []int
	for i, v := range t.Y {
		if math.IsNaN(v) {
			missing = append(missing, i)
		} else {
			has = append(has, i)
		}
	}
	return t.Subset(has), t.Subset(missing)
}

// TrainTestSplit randomly partitions the working set without replacement.
// The shuffle is driven by a PCG generator seeded from seed, so the split is
// reproducible. Both partitions are guaranteed non-empty.
func TrainTestSplit(t *Table, trainFrac float64, seed uint64) (train, test *Table, err error) {
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, nil, errors.NewValueError("TrainTestSplit", "train fraction must be in (0, 1)")
	}
	n := t.Len()
	if n < 2 {
		return nil, nil, errors.NewValueError("TrainTestSplit",
			errors.Newf("%d rows is too few to split", n).Error())
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	nTrain := int(math.Round(trainFrac * float64(n)))
	if nTrain < 1 {
		nTrain = 1
	}
	if nTrain > n-1 {
		nTrain = n - 1
	}

	return t.Subset(indices[:nTrain]), t.Subset(indices[nTrain:]), nil
}
