package cli

import (
	"os"
	"os/user"

	"github.com/google/uuid"
)

// Owner derives the lock-owner identity for this operator. It must be stable
// across invocations on the same machine so a pull-then-push by the same
// operator refreshes the lock instead of contending with itself.
func Owner() string {
	u, uerr := user.Current()
	host, herr := os.Hostname()
	if uerr != nil || herr != nil || u.Username == "" {
		// 識別できない環境では毎回ランダムな ID になる
		return "operator-" + uuid.NewString()[:8]
	}
	return u.Username + "@" + host
}
