package session

import "testing"

func TestSplitPath(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"/", nil},
		{"", nil},
		{"/counter", []string{"counter"}},
		{"/a/b/c", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := splitPath(c.in)
		if !pathsEqual(got, c.want) {
			t.Errorf("splitPath(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseRelativePathSplitsQuery(t *testing.T) {
	path, query := parseRelativePath("/counter?session=abc&window_id=1")
	if !pathsEqual(path, []string{"counter"}) {
		t.Errorf("got path %v", path)
	}
	if query["session"] != "abc" || query["window_id"] != "1" {
		t.Errorf("got query %v", query)
	}
}

func TestParseRelativePathNoQuery(t *testing.T) {
	path, query := parseRelativePath("/counter")
	if !pathsEqual(path, []string{"counter"}) {
		t.Errorf("got path %v", path)
	}
	if len(query) != 0 {
		t.Errorf("expected no query params, got %v", query)
	}
}

func TestParseRelativePathKeepsFirstValueOfRepeatedKey(t *testing.T) {
	_, query := parseRelativePath("/counter?x=1&x=2")
	if query["x"] != "1" {
		t.Errorf("got %v, want first value", query["x"])
	}
}

func TestPathsEqual(t *testing.T) {
	if !pathsEqual([]string{"a", "b"}, []string{"a", "b"}) {
		t.Error("expected equal")
	}
	if pathsEqual([]string{"a"}, []string{"a", "b"}) {
		t.Error("expected unequal for different lengths")
	}
	if pathsEqual(nil, []string{"a"}) {
		t.Error("expected unequal")
	}
	if !pathsEqual(nil, nil) {
		t.Error("expected two nils to be equal")
	}
}
