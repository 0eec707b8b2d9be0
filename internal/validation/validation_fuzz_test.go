package validation

import (
	"path"
	"strings"
	"testing"
	"unicode"
)

// FuzzValidProjectName checks that accepted names only ever contain ASCII
// letters, digits and underscores and start with a letter.
func FuzzValidProjectName(f *testing.F) {
	f.Add("MyFpgaProject")
	f.Add("a")
	f.Add("1abc")
	f.Add("my-project")
	f.Add("")
	f.Add("name\n")
	f.Add("Ωmega")

	f.Fuzz(func(t *testing.T, name string) {
		if !ValidProjectName(name) {
			return
		}
		if name == "" {
			t.Fatalf("empty name accepted")
		}
		first := rune(name[0])
		if first > unicode.MaxASCII || !unicode.IsLetter(first) {
			t.Errorf("accepted name with bad first character: %q", name)
		}
		for _, r := range name {
			if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
				t.Errorf("accepted name with bad character %q: %q", r, name)
			}
		}
	})
}

// FuzzValidateEntryName checks that accepted entry names never escape the
// archive root.
func FuzzValidateEntryName(f *testing.F) {
	f.Add("LICENSE")
	f.Add("mips/simple/sm_top.v")
	f.Add("../etc/passwd")
	f.Add("/abs")
	f.Add("a/../../b")
	f.Add("a/./b/../c")

	f.Fuzz(func(t *testing.T, name string) {
		if ValidateEntryName(name) != nil {
			return
		}
		clean := path.Clean(name)
		if strings.HasPrefix(clean, "/") {
			t.Errorf("accepted absolute entry: %q", name)
		}
		if clean == ".." || strings.HasPrefix(clean, "../") {
			t.Errorf("accepted escaping entry: %q", name)
		}
	})
}
