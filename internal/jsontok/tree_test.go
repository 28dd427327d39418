package jsontok

import (
	"slices"
	"testing"
)

func TestSkip(t *testing.T) {
	t.Parallel()

	tokens := mustParse(t, simpleDoc)

	tests := []struct {
		index int
		want  int
	}{
		{index: 0, want: 13},
		{index: 1, want: 2},
		{index: 2, want: 1},
		{index: 7, want: 6},
		{index: 8, want: 5},
	}
	for _, tt := range tests {
		if got := Skip(tokens, tt.index); got != tt.want {
			t.Errorf("Skip(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}

	short := []Token{{Type: Array, Size: 3}, {Type: Primitive}}
	if got := Skip(short, 0); got != Unset {
		t.Errorf("Skip(truncated) = %d, want %d", got, Unset)
	}
}

func TestChildren(t *testing.T) {
	t.Parallel()

	tokens := mustParse(t, simpleDoc)

	if got := slices.Collect(Children(tokens, 0)); !slices.Equal(got, []int{1, 3, 5, 7}) {
		t.Errorf("Children(object) = %v, want [1 3 5 7]", got)
	}
	if got := slices.Collect(Children(tokens, 8)); !slices.Equal(got, []int{9, 10, 11, 12}) {
		t.Errorf("Children(array) = %v, want [9 10 11 12]", got)
	}
	if got := slices.Collect(Children(tokens, 2)); len(got) != 0 {
		t.Errorf("Children(string) = %v, want none", got)
	}
}

func TestMemberAndElement(t *testing.T) {
	t.Parallel()

	tokens := mustParse(t, simpleDoc)

	uid := Member(tokens, 0, "uid")
	if uid == Unset || string(tokens[uid].Data) != "1000" {
		t.Fatalf("Member(uid) = %d", uid)
	}

	groups := Member(tokens, 0, "groups")
	if groups == Unset || tokens[groups].Type != Array {
		t.Fatalf("Member(groups) = %d", groups)
	}

	audio := Element(tokens, groups, 2)
	if audio == Unset || !Equal(&tokens[audio], "audio") {
		t.Errorf("Element(groups, 2) = %d", audio)
	}

	if got := Member(tokens, 0, "missing"); got != Unset {
		t.Errorf("Member(missing) = %d, want %d", got, Unset)
	}
	if got := Member(tokens, groups, "users"); got != Unset {
		t.Errorf("Member on array = %d, want %d", got, Unset)
	}
	if got := Element(tokens, groups, 4); got != Unset {
		t.Errorf("Element(groups, 4) = %d, want %d", got, Unset)
	}
	if got := Element(tokens, 0, 0); got != Unset {
		t.Errorf("Element on object = %d, want %d", got, Unset)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tokens := mustParse(t, `{"user":"johndoe","n":1}`)

	if !Equal(&tokens[1], "user") {
		t.Error(`Equal(label, "user") = false`)
	}
	if Equal(&tokens[1], "use") {
		t.Error(`Equal(label, "use") = true`)
	}
	if !Equal(&tokens[2], "johndoe") {
		t.Error(`Equal(string, "johndoe") = false`)
	}
	if Equal(&tokens[4], "1") {
		t.Error(`Equal(primitive, "1") = true`)
	}
}
