package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToStringArray(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty string", "", []string{}},
		{"comma string", "AI, Vision ,,NLP", []string{"AI", "Vision", "NLP"}},
		{"json array string", `["AI","Vision"]`, []string{"AI", "Vision"}},
		{"postgres literal", `{AI,"Computer Vision",NULL}`, []string{"AI", "Computer Vision"}},
		{"string slice", []string{" a ", "", "b"}, []string{"a", "b"}},
		{"any slice", []any{"a", nil, 3}, []string{"a", "3"}},
		{"malformed json", `["a", "b"`, []string{`"a"`, `"b"`}},
		{"scalar", 42, []string{"42"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeToStringArray(tc.in))
		})
	}
}

func TestNormalizeToStringArrayIdempotent(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"a,b, c",
		`["x","y,z"]`,
		`{one,"two, three"}`,
		[]string{"  p ", "q"},
		[]any{"r", 1.5},
		"NULL",
	}
	for _, in := range inputs {
		once := NormalizeToStringArray(in)
		twice := NormalizeToStringArray(once)
		assert.Equal(t, once, twice, "input %#v", in)
	}
}

func TestStringListScan(t *testing.T) {
	var l StringList

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan("a;b, c"))
	assert.Equal(t, StringList{"a;b", "c"}, l)

	assert.Error(t, l.Scan(`[broken`))
	assert.Error(t, l.Scan(int64(7)))
}

func TestStringListValueAndJSON(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	raw, err := json.Marshal(struct {
		Tags StringList `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(raw))

	var in struct {
		Tags StringList `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"tags":"Health, Gov"}`), &in))
	assert.Equal(t, StringList{"Health", "Gov"}, in.Tags)
}

func TestCatalogVisible(t *testing.T) {
	s := Solution{Status: StatusApproved, TechApprovalStatus: StatusApproved, BusinessApprovalStatus: StatusPending}
	assert.False(t, s.CatalogVisible())
	s.BusinessApprovalStatus = StatusApproved
	assert.True(t, s.CatalogVisible())
	s.Status = StatusPending
	assert.True(t, s.CatalogVisible())
}

func TestApprovalStatusValid(t *testing.T) {
	assert.True(t, StatusResubmit.Valid())
	assert.False(t, ApprovalStatus("archived").Valid())
}
