package promo

// StatusResult is the resolver's answer: the current promotion phase and,
// for every phase but "none", the sale that defines it.
type StatusResult struct {
	Status SaleStatus
	Sale   *SaleOverview
}
