package writer

//
// Column is an enum that represents a column of the CSV output.
//
type Column int

const (
	Timestamp Column = iota
	Pair
	Bid
	Ask
	Spread
	Error
)

var (
	columns = []Column{Timestamp, Pair, Bid, Ask, Spread, Error}
)

func (o Column) String() string {
	return [...]string{"Timestamp", "Pair", "Bid", "Ask", "Spread", "Error"}[o]
}

func header() []string {
	row := make([]string, len(columns))

	for i, c := range columns {
		row[i] = c.String()
	}

	return row
}
