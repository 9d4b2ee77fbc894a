package export

// Table defines tabular export content with ordered columns.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}
