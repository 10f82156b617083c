package domain

import "testing"

func TestCanCreateInvoice_FreeTier(t *testing.T) {
	cases := []struct {
		unpaid int
		want   bool
	}{
		{0, true},
		{1, true},
		{2, true},
		{3, false},
		{4, false},
		{100, false},
	}
	for _, c := range cases {
		if got := CanCreateInvoice(TierFree, c.unpaid, 3); got != c.want {
			t.Fatalf("free tier, %d unpaid: want %v, got %v", c.unpaid, c.want, got)
		}
	}
}

func TestCanCreateInvoice_ProTierUnlimited(t *testing.T) {
	for _, n := range []int{0, 3, 50, 10000} {
		if !CanCreateInvoice(TierPro, n, 3) {
			t.Fatalf("pro tier with %d unpaid must always be allowed", n)
		}
	}
}
