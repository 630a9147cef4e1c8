package excel

// RawTable is a tabular source as read, before coercion
type RawTable struct {
	Headers []string   // Header cells when ReadOptions.Header is set
	Rows    [][]string // Data rows, padded to Width
	Width   int        // Widest row seen
}
