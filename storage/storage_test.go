package storage

import (
	"strings"
	"testing"
)

func TestKeyPrefixKeepsServersDisjoint(t *testing.T) {
	servers := []string{"", "a", "a:", "a:b", "a:b:c", "ab", "b"}
	for _, x := range servers {
		for _, y := range servers {
			if x == y {
				continue
			}
			px, py := KeyPrefix(ServerNamespace{Server: x}), KeyPrefix(ServerNamespace{Server: y})
			if strings.HasPrefix(py, px) {
				t.Errorf("prefix of server %q (%q) is a prefix of server %q (%q)", x, px, y, py)
			}
		}
	}
	if KeyPrefix(nil) != "global:" {
		t.Fatalf("unexpected global prefix %q", KeyPrefix(nil))
	}
}
