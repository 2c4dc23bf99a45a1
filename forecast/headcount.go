package forecast

// Headcount is 1 for a position's salary line when the position is still
// active on the month's last day, else 0. A mid-month end disqualifies it;
// a mid-month start does not.
func Headcount(p Period, item LineItem) int {
	if item.Family != FamilyPosition || item.ExpenseType != ExpenseSalary {
		return 0
	}
	if item.Active.CoversEndOf(p) {
		return 1
	}
	return 0
}
