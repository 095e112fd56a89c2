package record

// EntryType separates money coming in from money going out. Categories and
// transactions both carry one.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// Sign returns 1 for income and -1 for expense, the direction an amount of
// this type moves a balance.
func (t EntryType) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}
