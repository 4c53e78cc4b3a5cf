package balance

import (
	"testing"

	"github.com/google/uuid"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	carol = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func find(t *testing.T, balances []MemberBalance, id uuid.UUID) MemberBalance {
	t.Helper()
	for _, b := range balances {
		if b.UserID == id {
			return b
		}
	}
	t.Fatalf("no balance for %s", id)
	return MemberBalance{}
}

func TestComputeSingleExpense(t *testing.T) {
	// Alice pays 30.00 split equally three ways.
	expenses := []Expense{{
		PaidBy:      alice,
		AmountCents: 3000,
		ShareCents:  map[uuid.UUID]int64{alice: 1000, bob: 1000, carol: 1000},
	}}

	balances, edges := Compute(expenses, nil)

	if got := find(t, balances, alice).NetCents; got != 2000 {
		t.Errorf("alice net = %d, want 2000", got)
	}
	if got := find(t, balances, bob).NetCents; got != -1000 {
		t.Errorf("bob net = %d, want -1000", got)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	for _, e := range edges {
		if e.ToUserID != alice || e.AmountCents != 1000 {
			t.Errorf("unexpected edge %+v", e)
		}
	}
}

func TestComputeSettlementOffsetsDebt(t *testing.T) {
	expenses := []Expense{{
		PaidBy:      alice,
		AmountCents: 2000,
		ShareCents:  map[uuid.UUID]int64{alice: 1000, bob: 1000},
	}}
	settlements := []Settlement{{PayerID: bob, ReceiverID: alice, AmountCents: 1000}}

	balances, edges := Compute(expenses, settlements)

	if got := find(t, balances, alice).NetCents; got != 0 {
		t.Errorf("alice net = %d, want 0", got)
	}
	if got := find(t, balances, bob).NetCents; got != 0 {
		t.Errorf("bob net = %d, want 0", got)
	}
	if len(edges) != 0 {
		t.Errorf("expected no remaining debt, got %v", edges)
	}
}

func TestComputeCrossDebtsSimplify(t *testing.T) {
	// Alice fronts 60 for everyone, Bob fronts 30 for everyone.
	expenses := []Expense{
		{
			PaidBy:      alice,
			AmountCents: 6000,
			ShareCents:  map[uuid.UUID]int64{alice: 2000, bob: 2000, carol: 2000},
		},
		{
			PaidBy:      bob,
			AmountCents: 3000,
			ShareCents:  map[uuid.UUID]int64{alice: 1000, bob: 1000, carol: 1000},
		},
	}

	balances, edges := Compute(expenses, nil)

	// alice: paid 60, owes 30 -> +30; bob: paid 30, owes 30 -> 0; carol: -30
	if got := find(t, balances, alice).NetCents; got != 3000 {
		t.Errorf("alice net = %d, want 3000", got)
	}
	if got := find(t, balances, bob).NetCents; got != 0 {
		t.Errorf("bob net = %d, want 0", got)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 simplified edge, got %d: %v", len(edges), edges)
	}
	e := edges[0]
	if e.FromUserID != carol || e.ToUserID != alice || e.AmountCents != 3000 {
		t.Errorf("unexpected edge %+v", e)
	}
}

func TestComputeDeterministicOrder(t *testing.T) {
	expenses := []Expense{{
		PaidBy:      alice,
		AmountCents: 3000,
		ShareCents:  map[uuid.UUID]int64{bob: 1500, carol: 1500},
	}}

	_, first := Compute(expenses, nil)
	for i := 0; i < 10; i++ {
		_, again := Compute(expenses, nil)
		if len(again) != len(first) {
			t.Fatalf("edge count changed between runs")
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("edge order changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	balances, edges := Compute(nil, nil)
	if len(balances) != 0 || len(edges) != 0 {
		t.Errorf("expected empty result, got %v, %v", balances, edges)
	}
}
