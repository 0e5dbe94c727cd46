package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Match(t *testing.T) {
	l := Lead{
		ID:          "1",
		Name:        "Asha Verma",
		Board:       "IGCSE",
		Status:      StatusAdmissionDue,
		SalesStatus: SalesContacted,
		Counsellor:  "Ravi",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "zero filter", filter: Filter{}, want: true},
		{name: "all", filter: Filter{Board: "all", Status: "ALL", SalesStatus: "All", Counsellor: "all"}, want: true},
		{name: "board case-insensitive", filter: Filter{Board: "igcse"}, want: true},
		{name: "board mismatch", filter: Filter{Board: "CBSE"}, want: false},
		{name: "board is not a substring match", filter: Filter{Board: "IGC"}, want: false},
		{name: "status", filter: Filter{Status: "Admission-Due"}, want: true},
		{name: "status mismatch", filter: Filter{Status: "new"}, want: false},
		{name: "sales status", filter: Filter{SalesStatus: "CONTACTED"}, want: true},
		{name: "sales status mismatch", filter: Filter{SalesStatus: "lost"}, want: false},
		{name: "counsellor exact", filter: Filter{Counsellor: "Ravi"}, want: true},
		{name: "counsellor is case-sensitive", filter: Filter{Counsellor: "ravi"}, want: false},
		{name: "search substring", filter: Filter{Search: "verm"}, want: true},
		{name: "search case-insensitive", filter: Filter{Search: "ASHA"}, want: true},
		{name: "search mismatch", filter: Filter{Search: "kumar"}, want: false},
		{name: "predicates are ANDed", filter: Filter{Board: "IGCSE", SalesStatus: "lost"}, want: false},
		{name: "all predicates", filter: Filter{Board: "IGCSE", Status: "admission-due", SalesStatus: "contacted", Counsellor: "Ravi", Search: "asha"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Clean().Match(l))
		})
	}
}

func TestFilter_Equal(t *testing.T) {
	assert.True(t, Filter{}.Equal(Filter{Board: "all", Status: " ALL "}))
	assert.True(t, Filter{Search: " asha "}.Equal(Filter{Search: "asha"}))
	assert.False(t, Filter{Board: "IGCSE"}.Equal(Filter{}))
}

func TestReduce(t *testing.T) {
	leads := makeLeads("a", "b", "c", "d")
	leads[1].Board = "IGCSE"
	leads[3].Board = "igcse"
	before := append([]Lead(nil), leads...)

	got := Reduce(leads, Filter{Board: "IGCSE"})
	assert.Equal(t, []string{"b", "d"}, ids(got))
	assert.Equal(t, before, leads, "input must not be modified")

	t.Run("idempotent", func(t *testing.T) {
		f := Filter{Board: "IGCSE", Search: "student"}
		first := Reduce(leads, f)
		second := Reduce(leads, f)
		assert.Equal(t, first, second)
		assert.Equal(t, before, leads)
	})

	t.Run("empty", func(t *testing.T) {
		got := Reduce(nil, Filter{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
