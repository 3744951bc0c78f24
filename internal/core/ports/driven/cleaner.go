package driven

// Cleaner normalises raw article text: strips markup residue, citation
// artifacts and encoding garbage, and collapses whitespace.
//
// A failed clean drops the affected article from the batch; it never aborts
// ingestion.
type Cleaner interface {
	Clean(text string) (string, error)
}
