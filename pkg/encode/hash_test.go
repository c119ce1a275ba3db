package encode

import "testing"

func TestCalMd5(t *testing.T) {
	// 固定向量，保证派生出的去重 key 跨版本稳定。
	cases := []struct {
		in   string
		want string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"hello", "5d41402abc4b2a76b9719d911017c592"},
	}
	for _, c := range cases {
		if got := CalMd5([]byte(c.in)); got != c.want {
			t.Errorf("CalMd5(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	if CalMd5([]byte("a")) == CalMd5([]byte("b")) {
		t.Fatal("different inputs hashed to the same digest")
	}
}
