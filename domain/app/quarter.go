package app

type Quarter string

const (
	QuarterQ1 Quarter = "Q1"
	QuarterQ2 Quarter = "Q2"
	QuarterQ3 Quarter = "Q3"
	QuarterQ4 Quarter = "Q4"
)

func (q Quarter) String() string {
	return string(q)
}

func (q Quarter) IsValid() bool {
	switch q {
	case QuarterQ1, QuarterQ2, QuarterQ3, QuarterQ4:
		return true
	default:
		return false
	}
}

var allQuarters = []Quarter{QuarterQ1, QuarterQ2, QuarterQ3, QuarterQ4}

func AllQuarters() []Quarter {
	return allQuarters
}
