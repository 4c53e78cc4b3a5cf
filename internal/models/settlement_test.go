package models

import "testing"

func TestIsValidSettlementTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{SettlementStatusUnconfirmed, SettlementStatusPayerConfirmed, true},
		{SettlementStatusPayerConfirmed, SettlementStatusFullySettled, true},

		// Receiver cannot confirm before payer
		{SettlementStatusUnconfirmed, SettlementStatusFullySettled, false},

		// No going back
		{SettlementStatusPayerConfirmed, SettlementStatusUnconfirmed, false},
		{SettlementStatusFullySettled, SettlementStatusPayerConfirmed, false},
		{SettlementStatusFullySettled, SettlementStatusUnconfirmed, false},

		// Self-loop is not a transition
		{SettlementStatusPayerConfirmed, SettlementStatusPayerConfirmed, false},

		{"nonexistent", SettlementStatusPayerConfirmed, false},
		{SettlementStatusUnconfirmed, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidSettlementTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidSettlementTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestSettlementStatusDerivation(t *testing.T) {
	tests := []struct {
		name              string
		payerConfirmed    bool
		receiverConfirmed bool
		expected          string
	}{
		{"neither", false, false, SettlementStatusUnconfirmed},
		{"payer only", true, false, SettlementStatusPayerConfirmed},
		{"both", true, true, SettlementStatusFullySettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settlement{PayerConfirmed: tt.payerConfirmed, ReceiverConfirmed: tt.receiverConfirmed}
			if got := s.Status(); got != tt.expected {
				t.Errorf("Status() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTerminalStatusHasNoTransitions(t *testing.T) {
	if transitions := ValidSettlementTransitions[SettlementStatusFullySettled]; len(transitions) != 0 {
		t.Errorf("fully settled should have no transitions, got %v", transitions)
	}
}

func TestAllStatusesHaveTransitionEntry(t *testing.T) {
	for _, status := range []string{SettlementStatusUnconfirmed, SettlementStatusPayerConfirmed, SettlementStatusFullySettled} {
		if _, ok := ValidSettlementTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidSettlementTransitions map", status)
		}
	}
}
