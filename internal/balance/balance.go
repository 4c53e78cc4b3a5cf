// Package balance aggregates expenses and settlements into per-member net
// balances and a simplified set of debts. All arithmetic is on integer cents.
package balance

import (
	"sort"

	"github.com/google/uuid"
)

// Expense is one shared cost: the payer fronted AmountCents and each entry in
// ShareCents is what a participant owes for it.
type Expense struct {
	PaidBy      uuid.UUID
	AmountCents int64
	ShareCents  map[uuid.UUID]int64
}

// Settlement is a fully settled payer->receiver transfer that offsets debt.
type Settlement struct {
	PayerID     uuid.UUID
	ReceiverID  uuid.UUID
	AmountCents int64
}

// MemberBalance is the aggregate position of one member.
type MemberBalance struct {
	UserID    uuid.UUID
	PaidCents int64 // fronted for expenses + paid out in settlements
	OwedCents int64 // shares of expenses + received settlements
	NetCents  int64 // positive = is owed money, negative = owes money
}

// DebtEdge is a suggested transfer that helps clear the group.
type DebtEdge struct {
	FromUserID  uuid.UUID
	ToUserID    uuid.UUID
	AmountCents int64
}

// Compute aggregates expenses and settlements into member balances and a
// minimal set of suggested transfers.
//
// For each expense the payer gets +amount paid and each participant +share
// owed; for each settlement the payer gets +amount paid and the receiver
// +amount owed, which cancels the corresponding debt. Suggestions come from
// greedily matching the largest debtor with the largest creditor, so the edge
// list is deterministic for a given input.
func Compute(expenses []Expense, settlements []Settlement) ([]MemberBalance, []DebtEdge) {
	balances := make(map[uuid.UUID]*MemberBalance)

	member := func(id uuid.UUID) *MemberBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &MemberBalance{UserID: id}
		balances[id] = b
		return b
	}

	for _, e := range expenses {
		member(e.PaidBy).PaidCents += e.AmountCents
		for userID, share := range e.ShareCents {
			member(userID).OwedCents += share
		}
	}

	for _, s := range settlements {
		member(s.PayerID).PaidCents += s.AmountCents
		member(s.ReceiverID).OwedCents += s.AmountCents
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, b := range balances {
		b.NetCents = b.PaidCents - b.OwedCents
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID.String() < result[j].UserID.String()
	})

	return result, simplify(result)
}

// simplify matches debtors against creditors, largest first, producing one
// edge per pairing until every balance is cleared.
func simplify(balances []MemberBalance) []DebtEdge {
	var debtors, creditors []MemberBalance
	for _, b := range balances {
		switch {
		case b.NetCents < 0:
			debtors = append(debtors, b)
		case b.NetCents > 0:
			creditors = append(creditors, b)
		}
	}

	byMagnitude := func(s []MemberBalance) {
		sort.Slice(s, func(i, j int) bool {
			ai, aj := abs(s[i].NetCents), abs(s[j].NetCents)
			if ai != aj {
				return ai > aj
			}
			return s[i].UserID.String() < s[j].UserID.String()
		})
	}
	byMagnitude(debtors)
	byMagnitude(creditors)

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owe := -debtors[i].NetCents
		due := creditors[j].NetCents

		amount := owe
		if due < amount {
			amount = due
		}
		if amount > 0 {
			edges = append(edges, DebtEdge{
				FromUserID:  debtors[i].UserID,
				ToUserID:    creditors[j].UserID,
				AmountCents: amount,
			})
		}

		debtors[i].NetCents += amount
		creditors[j].NetCents -= amount
		if debtors[i].NetCents == 0 {
			i++
		}
		if creditors[j].NetCents == 0 {
			j++
		}
	}
	return edges
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
