package sanitize

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "The Forest Hiker", "The Forest Hiker"},
		{"operator stripped", "$gt", "gt"},
		{"script tags escaped", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"mixed", "price$<b>", "price&lt;b&gt;"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.input))
		})
	}
}

func TestValues(t *testing.T) {
	values := url.Values{
		"difficulty": []string{"easy"},
		"$where":     []string{"sleep(1000)"},
		"price.gt":   []string{"500"},
		"name":       []string{"<img src=x>"},
		"sort":       []string{"-price"},
	}

	Values(values)

	want := url.Values{
		"difficulty": []string{"easy"},
		"name":       []string{"&lt;img src=x&gt;"},
		"sort":       []string{"-price"},
	}

	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("sanitized values mismatch (-want +got):\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	input := map[string]any{
		"email":  map[string]any{"$gt": ""},
		"name":   "<b>bob</b>",
		"rating": float64(5),
		"tags":   []any{"$ne", map[string]any{"$exists": true, "ok": "yes"}},
	}

	Map(input)

	want := map[string]any{
		"email":  map[string]any{},
		"name":   "&lt;b&gt;bob&lt;/b&gt;",
		"rating": float64(5),
		"tags":   []any{"ne", map[string]any{"ok": "yes"}},
	}

	if diff := cmp.Diff(want, input); diff != "" {
		t.Errorf("sanitized map mismatch (-want +got):\n%s", diff)
	}
}

func TestStruct(t *testing.T) {
	type nested struct {
		Summary string
	}

	type input struct {
		Name    string
		Tags    []string
		Nested  nested
		Ptr     *string
		Skipped int
	}

	ptr := "$where"
	v := input{
		Name:    "<script>x</script>",
		Tags:    []string{"$gt", "forest"},
		Nested:  nested{Summary: "a $ b"},
		Ptr:     &ptr,
		Skipped: 3,
	}

	Struct(&v)

	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", v.Name)
	assert.Equal(t, []string{"gt", "forest"}, v.Tags)
	assert.Equal(t, "a  b", v.Nested.Summary)
	assert.Equal(t, "where", *v.Ptr)
	assert.Equal(t, 3, v.Skipped)
}

func TestStructIgnoresNonPointer(t *testing.T) {
	v := struct{ Name string }{Name: "$x"}

	Struct(v)

	assert.Equal(t, "$x", v.Name)
}
