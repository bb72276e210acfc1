package staking

import (
	"crypto/sha256"
	"encoding/hex"
)

// testingLockupMaxLen bounds the account ids that get a testing lockup name.
const testingLockupMaxLen = 64

// LockupDeriver computes the lockup account id owned by an account.
type LockupDeriver struct {
	Suffix     string
	UseTesting bool
}

// LockupID returns the deterministic lockup id of accountID.
func (d LockupDeriver) LockupID(accountID string) string {
	if d.UseTesting && len(accountID) < testingLockupMaxLen {
		return "testinglockup." + accountID
	}
	suffix := d.Suffix
	if suffix == "" {
		suffix = DefaultLockupSuffix
	}
	sum := sha256.Sum256([]byte(accountID))
	return hex.EncodeToString(sum[:])[:40] + "." + suffix
}
