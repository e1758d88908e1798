package catalog

import "testing"

func files(names ...string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, Entry{Name: n})
	}
	return out
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		want    Class
	}{
		{"empty", nil, ClassUnknown},
		{"single archive", files("c001.cbz"), ClassSeries},
		{"archives outnumber images", files("a.zip", "b.rar", "cover.jpg"), ClassSeries},
		{"images outnumber archives", files("a.zip", "1.jpg", "2.jpg"), ClassUnknown},
		{"three images not enough", files("1.jpg", "2.jpg", "3.jpg"), ClassUnknown},
		{"four images promote parent", files("1.jpg", "2.jpg", "3.png", "4.gif"), ClassParent},
		{"subdirs do not count", []Entry{{Name: "x.cbz", IsDir: true}}, ClassUnknown},
		{"clutter only", files("notes.txt", "Thumbs.db"), ClassUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.entries); got != tc.want {
				t.Fatalf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsArchive(t *testing.T) {
	for _, name := range []string{"c.cbz", "c.ZIP", "c.tar", "c.7z"} {
		if !IsArchive(name) {
			t.Errorf("IsArchive(%q) = false", name)
		}
	}
	for _, name := range []string{"c.jpg", "c.txt", "archive", "c."} {
		if IsArchive(name) {
			t.Errorf("IsArchive(%q) = true", name)
		}
	}
}
